package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolate points XDG dirs and the working directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	for _, env := range envBindings {
		t.Setenv(env, "")
		_ = os.Unsetenv(env)
	}

	origWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	require.Equal(t, "/custom/config/scriptmatch/scriptmatch.yml", GlobalPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath()
	require.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %s", got)
	require.Equal(t, "scriptmatch.yml", filepath.Base(got))
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/var/data")
	require.Equal(t, "/var/data/scriptmatch", DefaultDataDir())
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, VariantInstructional, cfg.Variant)
	require.Equal(t, filepath.Join(tmpDir, "data", "scriptmatch"), cfg.DataDir)
	require.Equal(t, BackendFile, cfg.Store.Backend)
	require.Equal(t, DefaultBaseURL, cfg.LLM.BaseURL)
	require.Equal(t, DefaultModel, cfg.LLM.Model)
	require.Equal(t, 120, cfg.LLM.TimeoutSeconds)
	require.False(t, cfg.LLM.Fallback)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(GlobalPath()), 0755))
	require.NoError(t, os.WriteFile(GlobalPath(), []byte("variant: narrative\nllm:\n  model: global-model\n"), 0644))
	require.NoError(t, os.WriteFile(ProjectPath(), []byte("llm:\n  model: project-model\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, VariantNarrative, cfg.Variant, "global value survives project merge")
	require.Equal(t, "project-model", cfg.LLM.Model, "project overrides global")

	t.Setenv("SCRIPTMATCH_LLM_MODEL", "env-model")
	t.Setenv("SCRIPTMATCH_LLM_FALLBACK", "true")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, "env-model", cfg.LLM.Model, "env overrides files")
	require.True(t, cfg.LLM.Fallback)
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("SCRIPTMATCH_STORE_BACKEND=nats\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("SCRIPTMATCH_STORE_BACKEND") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendNATS, cfg.Store.Backend)
}

func TestLoadRejectsInvalidVariant(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(ProjectPath(), []byte("variant: musical\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid variant")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(*Config) {}, false},
		{"narrative", func(c *Config) { c.Variant = VariantNarrative }, false},
		{"bad backend", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"zero timeout", func(c *Config) { c.LLM.TimeoutSeconds = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWriteGlobalAndProject(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Variant = VariantNarrative
	cfg.LLM.Model = "test/model"
	cfg.Prompt.InstructionTemplate = "wisdom.md"

	require.NoError(t, WriteGlobal(cfg))
	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "variant: narrative")
	require.Contains(t, content, "model: test/model")
	require.Contains(t, content, "instruction_template: wisdom.md")
	require.True(t, Exists())

	require.NoError(t, WriteProject(cfg))
	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "test/model", loaded.LLM.Model)
	require.Equal(t, "wisdom.md", loaded.Prompt.InstructionTemplate)
}
