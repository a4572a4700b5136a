package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"store_base_url": "https://example.com/api",
		"upload_url": "https://example.com/upload",
		"provider": "chatgpt",
		"model": "gpt-4o-mini",
		"settle_delay_ms": 500,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/api", cfg.StoreBaseURL)
	assert.Equal(t, "https://example.com/upload", cfg.UploadURL)
	assert.Equal(t, "chatgpt", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 500, cfg.SettleDelayMs)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := &Config{
		Provider: "watson",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestValidate_NegativeSettleDelay(t *testing.T) {
	cfg := &Config{
		SettleDelayMs: -1,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settle_delay_ms")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Provider:      "gemini",
		Model:         "gemini-2.5-flash",
		SettleDelayMs: 500,
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		StoreBaseURL:  "https://default.example.com/api",
		UploadURL:     "https://default.example.com/upload",
		Model:         "gpt-4o-mini",
		SettleDelayMs: 500,
	}

	partial := Config{
		StoreBaseURL: "https://custom.example.com/api",
		Provider:     "chatgpt",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "https://custom.example.com/api", merged.StoreBaseURL)
	assert.Equal(t, "chatgpt", merged.Provider)

	// Default values should fill in empty fields
	assert.Equal(t, "https://default.example.com/upload", merged.UploadURL)
	assert.Equal(t, "gpt-4o-mini", merged.Model)
	assert.Equal(t, 500, merged.SettleDelayMs)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{
		Provider: "gemini",
		APIKey:   "test-key",
	}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "gemini", merged.Provider)
	assert.Equal(t, "test-key", merged.APIKey)
}
