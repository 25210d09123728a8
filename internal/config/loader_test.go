package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadFormats(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"cfg.yaml", "addr: \":9000\"\nvariant: image\nmodel_path: /models/m.onnx\nlog_level: debug\n"},
		{"cfg.json", `{"addr":":9000","variant":"image","model_path":"/models/m.onnx","log_level":"debug"}`},
		{"cfg.toml", "addr = \":9000\"\nvariant = \"image\"\nmodel_path = \"/models/m.onnx\"\nlog_level = \"debug\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeTemp(t, tc.name, tc.content))
			require.NoError(t, err)
			assert.Equal(t, ":9000", cfg.Addr)
			assert.Equal(t, VariantImage, cfg.Variant)
			assert.Equal(t, "/models/m.onnx", cfg.ModelPath)
			assert.Equal(t, "debug", cfg.LogLevel)
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeTemp(t, "cfg.ini", "addr=:9000"))
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PREDICTD_ADDR", ":7777")
	t.Setenv("PREDICTD_VARIANT", "image")
	t.Setenv("MODEL_PATH", "/env/model.onnx")
	t.Setenv("LOG_LEVEL", "warn")

	cfg := Config{Addr: ":1234", Variant: VariantSentiment}
	cfg.ApplyEnv()

	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, VariantImage, cfg.Variant)
	assert.Equal(t, "/env/model.onnx", cfg.ModelPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestApplyDefaultsPerVariant(t *testing.T) {
	var sentiment Config
	sentiment.ApplyDefaults()
	assert.Equal(t, DefaultAddr, sentiment.Addr)
	assert.Equal(t, VariantSentiment, sentiment.Variant)
	assert.Equal(t, DefaultSentimentModelPath, sentiment.ModelPath)

	img := Config{Variant: VariantImage}
	img.ApplyDefaults()
	assert.Equal(t, DefaultImageModelPath, img.ModelPath)
}

func TestValidate(t *testing.T) {
	ok := Config{Variant: VariantSentiment}
	assert.NoError(t, ok.Validate())

	bad := Config{Variant: "llm"}
	assert.Error(t, bad.Validate())
}
