// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Endpoints
	StoreBaseURL string `json:"store_base_url,omitempty"` // Base URL of the resume persistence API
	UploadURL    string `json:"upload_url,omitempty"`     // File upload endpoint
	LLMBaseURL   string `json:"llm_base_url,omitempty"`   // Chat-completion API base URL

	// LLM
	Provider string `json:"provider,omitempty"` // "chatgpt" (HTTP chat-completions) or "gemini"
	Model    string `json:"model,omitempty"`    // Model name passed to the completion service
	APIKey   string `json:"api_key,omitempty"`  // Completion API key

	// Export
	OutputDir     string `json:"output_dir,omitempty"`      // Directory for exported PDFs
	SettleDelayMs int    `json:"settle_delay_ms,omitempty"` // Delay before printing the rendered page; zero merges as unset

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Provider != "" && c.Provider != "chatgpt" && c.Provider != "gemini" {
		return fmt.Errorf("config error: unknown provider %q (expected \"chatgpt\" or \"gemini\")", c.Provider)
	}

	if c.SettleDelayMs < 0 {
		return fmt.Errorf("config error: 'settle_delay_ms' must be non-negative")
	}

	if c.OutputDir != "" {
		if info, err := os.Stat(c.OutputDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: 'output_dir' is not a directory: %s", c.OutputDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.StoreBaseURL == "" {
		result.StoreBaseURL = defaults.StoreBaseURL
	}
	if result.UploadURL == "" {
		result.UploadURL = defaults.UploadURL
	}
	if result.LLMBaseURL == "" {
		result.LLMBaseURL = defaults.LLMBaseURL
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}

	// Int fields: use default if zero
	if result.SettleDelayMs == 0 {
		result.SettleDelayMs = defaults.SettleDelayMs
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
