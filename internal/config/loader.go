package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Variant names for the two services sharing this binary.
const (
	VariantSentiment = "sentiment"
	VariantImage     = "image"
)

// Defaults applied when corresponding fields are unset.
const (
	DefaultAddr               = ":8080"
	DefaultSentimentModelPath = "models/sentiment"
	DefaultImageModelPath     = "models/image_classifier.onnx"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	Variant   string `json:"variant" yaml:"variant" toml:"variant"`
	ModelPath string `json:"model_path" yaml:"model_path" toml:"model_path"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto unset fields. The file (or
// flags) win only where the environment is silent; explicit env always
// overrides file values for the variables the deployment contract names.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PREDICTD_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PREDICTD_VARIANT"); v != "" {
		c.Variant = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.ModelPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// ApplyDefaults fills unset fields. The default model path depends on the
// variant: a directory artifact for sentiment, a single file for image.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Variant == "" {
		c.Variant = VariantSentiment
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ModelPath == "" {
		switch c.Variant {
		case VariantImage:
			c.ModelPath = DefaultImageModelPath
		default:
			c.ModelPath = DefaultSentimentModelPath
		}
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Variant {
	case VariantSentiment, VariantImage:
		return nil
	default:
		return fmt.Errorf("unknown variant %q (want %s or %s)", c.Variant, VariantSentiment, VariantImage)
	}
}
