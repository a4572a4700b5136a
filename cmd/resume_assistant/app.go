package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/config"
	"github.com/jonathan/resume-assistant/internal/export"
	"github.com/jonathan/resume-assistant/internal/intake"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/logger"
	"github.com/jonathan/resume-assistant/internal/session"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/upload"
)

var (
	flagConfig        string
	flagStoreURL      string
	flagUploadURL     string
	flagLLMURL        string
	flagProvider      string
	flagModel         string
	flagAPIKey        string
	flagOutputDir     string
	flagSettleDelayMs int
	flagVerbose       bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagStoreURL, "store-url", "", "Base URL of the resume persistence API (or STORE_BASE_URL env var)")
	rootCmd.PersistentFlags().StringVar(&flagUploadURL, "upload-url", "", "File upload endpoint (or UPLOAD_URL env var)")
	rootCmd.PersistentFlags().StringVar(&flagLLMURL, "llm-url", "", "Chat-completion endpoint URL (or LLM_BASE_URL env var)")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "Completion provider: chatgpt or gemini (default chatgpt)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model name passed to the completion service")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "Completion API key (or LLM_API_KEY / GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "Directory for exported PDFs (default exports)")
	rootCmd.PersistentFlags().IntVar(&flagSettleDelayMs, "settle-delay-ms", 0, "Delay before printing the rendered page; 0 is treated as unset and falls back to 500")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
}

// loadEffectiveConfig merges flags, an optional config file and environment
// variables, with flags winning.
func loadEffectiveConfig() (config.Config, error) {
	cfg := config.Config{
		StoreBaseURL:  flagStoreURL,
		UploadURL:     flagUploadURL,
		LLMBaseURL:    flagLLMURL,
		Provider:      flagProvider,
		Model:         flagModel,
		APIKey:        flagAPIKey,
		OutputDir:     flagOutputDir,
		SettleDelayMs: flagSettleDelayMs,
		Verbose:       flagVerbose,
	}

	if flagConfig != "" {
		fileCfg, err := config.LoadConfig(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		StoreBaseURL:  os.Getenv("STORE_BASE_URL"),
		UploadURL:     os.Getenv("UPLOAD_URL"),
		LLMBaseURL:    os.Getenv("LLM_BASE_URL"),
		APIKey:        firstNonEmpty(os.Getenv("LLM_API_KEY"), os.Getenv("GEMINI_API_KEY")),
		Provider:      "chatgpt",
		OutputDir:     "exports",
		SettleDelayMs: 500,
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.StoreBaseURL == "" {
		return config.Config{}, fmt.Errorf("store URL is required (use --store-url or STORE_BASE_URL)")
	}
	if cfg.Provider == "chatgpt" && cfg.LLMBaseURL == "" {
		return config.Config{}, fmt.Errorf("completion endpoint is required (use --llm-url or LLM_BASE_URL)")
	}
	if cfg.Provider == "gemini" && cfg.APIKey == "" {
		return config.Config{}, fmt.Errorf("API key is required for the gemini provider (use --api-key or GEMINI_API_KEY)")
	}
	return cfg, nil
}

// app bundles the wired collaborators behind each subcommand.
type app struct {
	cfg      config.Config
	llm      llm.Client
	store    *store.Client
	session  *session.Session
	exporter *export.Exporter
	flow     *intake.Flow
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadEffectiveConfig()
	if err != nil {
		return nil, err
	}
	logger.SetVerbose(cfg.Verbose)

	client, err := llm.NewClient(ctx, llm.Config{
		Provider: llm.Provider(cfg.Provider),
		BaseURL:  cfg.LLMBaseURL,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	storeClient := store.NewClient(cfg.StoreBaseURL)
	sess := session.New(storeClient, client)

	printer := export.NewBrowserPrinter()
	printer.SettleDelay = time.Duration(cfg.SettleDelayMs) * time.Millisecond
	exporter := export.NewExporter(client, printer)

	var uploader *upload.Adapter
	if cfg.UploadURL != "" {
		uploader = upload.NewAdapter(cfg.UploadURL)
	}

	return &app{
		cfg:      cfg,
		llm:      client,
		store:    storeClient,
		session:  sess,
		exporter: exporter,
		flow:     intake.NewFlow(storeClient, uploader, sess, exporter, cfg.OutputDir),
	}, nil
}

func (a *app) Close() {
	if err := a.llm.Close(); err != nil {
		logger.Warn("failed to close completion client: %v", err)
	}
}

// printConversation writes the message log to the command's output.
func printConversation(cmd *cobra.Command, messages []session.Message) {
	for _, msg := range messages {
		prefix := "You"
		if msg.Role == session.RoleBot {
			prefix = "Assistant"
		}
		cmd.Printf("%s: %s\n\n", prefix, msg.Content)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
