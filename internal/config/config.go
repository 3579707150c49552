// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Product variants.
const (
	VariantInstructional = "instructional"
	VariantNarrative     = "narrative"
)

// Store backends.
const (
	BackendFile = "file"
	BackendNATS = "nats"
)

// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// DefaultModel is used when llm.model is not configured.
const DefaultModel = "gemini-2.0-flash"

// Config holds all configuration values for scriptmatch.
type Config struct {
	Variant  string       `mapstructure:"variant" yaml:"variant"`
	DataDir  string       `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string       `mapstructure:"log_file" yaml:"log_file"`
	Store    StoreConfig  `mapstructure:"store" yaml:"store"`
	LLM      LLMConfig    `mapstructure:"llm" yaml:"llm"`
	Prompt   PromptConfig `mapstructure:"prompt" yaml:"prompt"`
}

// StoreConfig selects where wizard state and the API key are persisted.
type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// LLMConfig configures the OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Model          string `mapstructure:"model" yaml:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// Fallback substitutes a canned example payload when a request fails.
	Fallback bool `mapstructure:"fallback" yaml:"fallback"`
}

// PromptConfig holds prompt customization.
type PromptConfig struct {
	// InstructionTemplate is an optional file spliced into generation prompts.
	InstructionTemplate string `mapstructure:"instruction_template" yaml:"instruction_template"`
}

// Timeout returns the request timeout as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"variant":                     "SCRIPTMATCH_VARIANT",
	"data_dir":                    "SCRIPTMATCH_DATA_DIR",
	"log_level":                   "SCRIPTMATCH_LOG_LEVEL",
	"log_file":                    "SCRIPTMATCH_LOG_FILE",
	"store.backend":               "SCRIPTMATCH_STORE_BACKEND",
	"llm.base_url":                "SCRIPTMATCH_LLM_BASE_URL",
	"llm.model":                   "SCRIPTMATCH_LLM_MODEL",
	"llm.timeout_seconds":         "SCRIPTMATCH_LLM_TIMEOUT_SECONDS",
	"llm.fallback":                "SCRIPTMATCH_LLM_FALLBACK",
	"prompt.instruction_template": "SCRIPTMATCH_PROMPT_INSTRUCTION_TEMPLATE",
}

// Load loads configuration with full precedence:
// ENV vars (.env included) > project config > XDG global config > defaults.
// CLI flags are applied on top by the caller.
func Load() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("scriptmatch")

	v.SetDefault("variant", VariantInstructional)
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("llm.base_url", DefaultBaseURL)
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.timeout_seconds", 120)
	v.SetDefault("llm.fallback", false)
	v.SetDefault("prompt.instruction_template", "")

	v.SetEnvPrefix("SCRIPTMATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Variant {
	case VariantInstructional, VariantNarrative:
	default:
		return fmt.Errorf("invalid variant %q (want %s or %s)", c.Variant, VariantInstructional, VariantNarrative)
	}
	switch c.Store.Backend {
	case BackendFile, BackendNATS:
	default:
		return fmt.Errorf("invalid store backend %q (want %s or %s)", c.Store.Backend, BackendFile, BackendNATS)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	return nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Variant:  VariantInstructional,
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
		Store:    StoreConfig{Backend: BackendFile},
		LLM: LLMConfig{
			BaseURL:        DefaultBaseURL,
			Model:          DefaultModel,
			TimeoutSeconds: 120,
		},
	}
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/scriptmatch/scriptmatch.yml or $XDG_CONFIG_HOME/scriptmatch/scriptmatch.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scriptmatch", "scriptmatch.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scriptmatch", "scriptmatch.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "scriptmatch.yml"
}

// DefaultDataDir returns $XDG_DATA_HOME/scriptmatch or ~/.local/share/scriptmatch.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "scriptmatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "scriptmatch")
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
