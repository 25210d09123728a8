package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"predictd/internal/classifier"
	"predictd/internal/config"
	"predictd/internal/logging"
	"predictd/internal/normalize"
)

// newBatchCmd adds offline batch prediction over a CSV of texts, the
// command-line counterpart of the sentiment variant's /predict endpoint.
// Input must contain a "text" column; the output gains
// "predicted_sentiment" and "confidence" columns.
func newBatchCmd(cfgPath *string, flagCfg *config.Config) *cobra.Command {
	var (
		input   string
		output  string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify a CSV of texts with the sentiment model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(*cfgPath, *flagCfg)
			if err != nil {
				return err
			}
			if cfg.Variant != config.VariantSentiment {
				return fmt.Errorf("batch prediction supports the sentiment variant only")
			}
			return runBatch(cmd.Context(), cfg, input, output, workers)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Input CSV with a 'text' column")
	cmd.Flags().StringVar(&output, "output", "", "Output CSV path")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Concurrent prediction workers")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runBatch(ctx context.Context, cfg config.Config, input, output string, workers int) error {
	log := logging.New(cfg.LogLevel, os.Stderr)

	path, err := classifier.ResolveArtifactPath(cfg.ModelPath, config.DefaultSentimentModelPath)
	if err != nil {
		return err
	}
	cache := newSentimentCache(path, log)
	svc := classifier.NewTextClassifier(cache, log)

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("read input csv: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("input csv is empty")
	}

	textCol := -1
	for i, name := range rows[0] {
		if name == "text" {
			textCol = i
			break
		}
	}
	if textCol < 0 {
		return fmt.Errorf("input csv must contain a 'text' column")
	}

	type result struct {
		sentiment  string
		confidence float32
	}
	results := make([]result, len(rows)-1)

	g, gctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, row := range rows[1:] {
		i, row := i, row
		g.Go(func() error {
			pred, err := svc.Predict(gctx, row[textCol])
			if err != nil {
				// Blank rows mirror the original job's fillna behavior:
				// emit an empty prediction instead of aborting the batch.
				if errors.Is(err, normalize.ErrEmptyInput) {
					return nil
				}
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			results[i] = result{sentiment: pred.Sentiment, confidence: pred.Confidence}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(append(rows[0], "predicted_sentiment", "confidence")); err != nil {
		return err
	}
	for i, row := range rows[1:] {
		conf := ""
		if results[i].sentiment != "" {
			conf = strconv.FormatFloat(float64(results[i].confidence), 'f', 6, 32)
		}
		if err := w.Write(append(row, results[i].sentiment, conf)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Info().Int("rows", len(rows)-1).Str("output", output).Msg("batch prediction complete")
	return nil
}
