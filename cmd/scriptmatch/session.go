package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/scriptmatch/internal/config"
	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/logger"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/store"
	"github.com/mark3labs/scriptmatch/internal/wizard"
	"github.com/spf13/cobra"
)

var globalFlags struct {
	variant  string
	dataDir  string
	backend  string
	baseURL  string
	model    string
	fallback bool
	logLevel string
	logFile  string
}

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&globalFlags.variant, "variant", "", "Product variant: instructional or narrative")
	f.StringVar(&globalFlags.dataDir, "data-dir", "", "Directory for saved progress and the API key")
	f.StringVar(&globalFlags.backend, "store", "", "Storage backend: file or nats")
	f.StringVar(&globalFlags.baseURL, "base-url", "", "OpenAI-compatible endpoint")
	f.StringVarP(&globalFlags.model, "model", "m", "", "Model name")
	f.BoolVar(&globalFlags.fallback, "fallback", false, "Use example output when the model fails")
	f.StringVar(&globalFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&globalFlags.logFile, "log-file", "", "Write logs to this file")
}

// loadConfig loads the layered configuration, applies the flags that were
// set explicitly, and configures the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session bundles what every command needs.
type session struct {
	cfg     *config.Config
	store   store.Store
	machine *wizard.Machine
}

// applyFlags overrides cfg with the global flags that were set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("variant") {
		cfg.Variant = globalFlags.variant
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = globalFlags.dataDir
	}
	if flags.Changed("store") {
		cfg.Store.Backend = globalFlags.backend
	}
	if flags.Changed("base-url") {
		cfg.LLM.BaseURL = globalFlags.baseURL
	}
	if flags.Changed("model") {
		cfg.LLM.Model = globalFlags.model
	}
	if flags.Changed("fallback") {
		cfg.LLM.Fallback = globalFlags.fallback
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = globalFlags.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = globalFlags.logFile
	}
}

// openStore loads config and opens the configured store.
func openStore(ctx context.Context, cmd *cobra.Command) (*config.Config, store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debug("Opened %s store in %s", cfg.Store.Backend, cfg.DataDir)
	return cfg, st, nil
}

// openSession opens the store and builds the wizard on top of it.
func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, st, err := openStore(ctx, cmd)
	if err != nil {
		return nil, err
	}

	client := llm.NewOpenAIClient(llm.OpenAIConfig{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout(),
	})
	m, err := wizard.New(wizard.Options{
		Variant:             state.Variant(cfg.Variant),
		Store:               st,
		Client:              client,
		Fallback:            cfg.LLM.Fallback,
		InstructionTemplate: cfg.Prompt.InstructionTemplate,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: st, machine: m}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		logger.Warn("Failed to close store: %v", err)
	}
}

// actionError turns the outcome of a model-backed action into a command
// error. Failures the wizard recorded in its state surface here too.
func (s *session) actionError(err error) error {
	if errors.Is(err, llm.ErrCredentialMissing) {
		return fmt.Errorf("%w; run 'scriptmatch key set' first", err)
	}
	if err != nil {
		return err
	}
	if msg := s.machine.State().Error; msg != "" {
		return errors.New(msg)
	}
	return nil
}
