package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"predictd/internal/classifier"
	"predictd/internal/config"
	"predictd/internal/httpapi"
	"predictd/internal/logging"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		flagCfg config.Config
	)

	root := &cobra.Command{
		Use:           "predictd",
		Short:         "Serve predictions from a pre-trained classification model over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (yaml/json/toml)")
	root.PersistentFlags().StringVar(&flagCfg.Addr, "addr", "", "HTTP listen address, e.g. :8080 (defaults PREDICTD_ADDR or :8080)")
	root.PersistentFlags().StringVar(&flagCfg.Variant, "variant", "", "Service variant: sentiment|image (defaults PREDICTD_VARIANT or sentiment)")
	root.PersistentFlags().StringVar(&flagCfg.ModelPath, "model-path", "", "Model artifact path (defaults MODEL_PATH or a variant-specific path)")
	root.PersistentFlags().StringVar(&flagCfg.LogLevel, "log-level", "", "Log level: debug|info|warn|error (defaults LOG_LEVEL or info)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP prediction service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cfgPath, flagCfg)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	root.AddCommand(serveCmd)
	root.AddCommand(newBatchCmd(&cfgPath, &flagCfg))
	return root
}

// resolveConfig merges configuration sources. Precedence, highest first:
// explicit flags, environment, config file, built-in defaults.
func resolveConfig(cfgPath string, flagCfg config.Config) (config.Config, error) {
	var cfg config.Config
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if flagCfg.Addr != "" {
		cfg.Addr = flagCfg.Addr
	}
	if flagCfg.Variant != "" {
		cfg.Variant = flagCfg.Variant
	}
	if flagCfg.ModelPath != "" {
		cfg.ModelPath = flagCfg.ModelPath
	}
	if flagCfg.LogLevel != "" {
		cfg.LogLevel = flagCfg.LogLevel
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runServe(cfg config.Config) error {
	log := logging.New(cfg.LogLevel, os.Stderr)

	handler, closeModel, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer closeModel()

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("variant", cfg.Variant).Msg("predictd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}

// buildService wires the variant-specific model cache, classifier, and
// router. The image variant loads eagerly and refuses to start without its
// artifact; the sentiment variant loads lazily and degrades to the
// baseline when the artifact is missing.
func buildService(cfg config.Config, log zerolog.Logger) (http.Handler, func(), error) {
	switch cfg.Variant {
	case config.VariantImage:
		path, err := classifier.ResolveArtifactPath(cfg.ModelPath, config.DefaultImageModelPath)
		if err != nil {
			return nil, nil, err
		}
		cache := classifier.NewCache(classifier.FailFast,
			func(ctx context.Context) (classifier.ImageModel, error) {
				log.Info().Str("path", path).Msg("loading image model")
				return classifier.LoadImageModel(path)
			},
			nil, log)
		svc := classifier.NewImageClassifier(cache, log)
		if err := svc.Ensure(context.Background()); err != nil {
			return nil, nil, fmt.Errorf("startup model load: %w", err)
		}
		return httpapi.NewImageMux(svc, log), closerFor(cache), nil

	default:
		path, err := classifier.ResolveArtifactPath(cfg.ModelPath, config.DefaultSentimentModelPath)
		if err != nil {
			return nil, nil, err
		}
		cache := newSentimentCache(path, log)
		svc := classifier.NewTextClassifier(cache, log)
		return httpapi.NewTextMux(svc, log), closerFor(cache), nil
	}
}

func newSentimentCache(path string, log zerolog.Logger) *classifier.Cache[classifier.TextModel] {
	return classifier.NewCache(classifier.FallbackToBaseline,
		func(ctx context.Context) (classifier.TextModel, error) {
			log.Info().Str("path", path).Msg("loading sentiment model")
			return classifier.LoadTextModel(path)
		},
		func(ctx context.Context) (classifier.TextModel, error) {
			return classifier.NewBaselineTextModel(), nil
		},
		log)
}

// closerFor releases the model handle at shutdown without ever triggering
// a load of its own.
func closerFor[M interface{ Close() error }](cache *classifier.Cache[M]) func() {
	return func() {
		if !cache.Ready() {
			return
		}
		if m, err := cache.Get(context.Background()); err == nil {
			_ = m.Close()
		}
	}
}
