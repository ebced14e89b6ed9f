package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ocerrors "github.com/faegents/openclaw/internal/errors"
)

// clearEnv blanks every override variable so the host environment
// cannot leak into a test. Blank values are treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAssistantKey, EnvGoogleKey, EnvGitHubToken, EnvRepo,
		EnvBranch, EnvModel, EnvRefresh, EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GitHubRepo != DefaultRepo {
		t.Fatalf("GitHubRepo = %q, want %q", cfg.GitHubRepo, DefaultRepo)
	}
	if cfg.GitHubBranch != DefaultBranch {
		t.Fatalf("GitHubBranch = %q, want %q", cfg.GitHubBranch, DefaultBranch)
	}
	if cfg.TodoLimit != DefaultTodoLimit {
		t.Fatalf("TodoLimit = %d, want %d", cfg.TodoLimit, DefaultTodoLimit)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	content := `{"github_token": "file-token", "github_repo": "acme/ops", "refresh_interval": 5}`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GitHubToken != "file-token" {
		t.Errorf("GitHubToken = %q, want %q", cfg.GitHubToken, "file-token")
	}
	if cfg.GitHubRepo != "acme/ops" {
		t.Errorf("GitHubRepo = %q, want %q", cfg.GitHubRepo, "acme/ops")
	}
	if cfg.RefreshInterval != 5 {
		t.Errorf("RefreshInterval = %d, want 5", cfg.RefreshInterval)
	}
	// Untouched fields keep defaults
	if cfg.GitHubBranch != DefaultBranch {
		t.Errorf("GitHubBranch = %q, want %q", cfg.GitHubBranch, DefaultBranch)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	content := `{"github_token": "file-token", "github_repo": "acme/ops", "github_branch": "dev"}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0600))

	t.Setenv(EnvGitHubToken, "env-token")
	t.Setenv(EnvBranch, "release")

	cfg, err := Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.GitHubToken)
	assert.Equal(t, "release", cfg.GitHubBranch)
	assert.Equal(t, "acme/ops", cfg.GitHubRepo)
}

func TestLoad_InvalidJSON(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvGoogleKey: "google-key",
		EnvRepo:      " acme/ops ",
		EnvRefresh:   "12",
		EnvLogLevel:  "DEBUG",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := FromEnv(lookup)
	assert.Equal(t, "google-key", cfg.AssistantAPIKey, "GOOGLE_API_KEY is the fallback")
	assert.Equal(t, "acme/ops", cfg.GitHubRepo)
	assert.Equal(t, 12, cfg.RefreshInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.GitHubToken)
}

func TestFromEnv_GeminiKeyWins(t *testing.T) {
	env := map[string]string{EnvAssistantKey: "gemini", EnvGoogleKey: "google"}
	cfg := FromEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "gemini", cfg.AssistantAPIKey)
}

func TestFromEnv_BadRefreshIgnored(t *testing.T) {
	env := map[string]string{EnvRefresh: "soon"}
	cfg := FromEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Zero(t, cfg.RefreshInterval)
}

func TestMerge(t *testing.T) {
	base := &Config{GitHubRepo: "a/b", GitHubBranch: "main", TodoLimit: 30}
	overlay := &Config{GitHubBranch: "dev", GitHubToken: "tok"}

	result := Merge(base, overlay)
	assert.Equal(t, "a/b", result.GitHubRepo)
	assert.Equal(t, "dev", result.GitHubBranch)
	assert.Equal(t, "tok", result.GitHubToken)
	assert.Equal(t, 30, result.TodoLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad repo", func(c *Config) { c.GitHubRepo = "not-a-repo" }, true},
		{"repo with spaces", func(c *Config) { c.GitHubRepo = "acme/ops tools" }, true},
		{"empty branch", func(c *Config) { c.GitHubBranch = "" }, true},
		{"todo limit too high", func(c *Config) { c.TodoLimit = 31 }, true},
		{"todo limit zero is unset", func(c *Config) { c.TodoLimit = 0 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ocerrors.Is(err, ocerrors.ErrInvalidConfig), "got %v", err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	baseDir := filepath.Join(t.TempDir(), ".openclaw")

	cfg := DefaultConfig()
	cfg.GitHubToken = "tok"
	cfg.AssistantAPIKey = "key"
	cfg.GitHubRepo = "acme/ops"

	require.NoError(t, Save(baseDir, cfg))

	info, err := os.Stat(Path(baseDir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(Path(baseDir))
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "acme/ops", onDisk["github_repo"])
	assert.Equal(t, "tok", onDisk["github_token"])

	loaded, err := Load(baseDir)
	require.NoError(t, err)
	assert.Equal(t, "key", loaded.AssistantAPIKey)
	assert.Equal(t, "acme/ops", loaded.GitHubRepo)
}

func TestSave_RejectsInvalid(t *testing.T) {
	baseDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.GitHubRepo = "nope"

	err := Save(baseDir, cfg)
	require.Error(t, err)
	_, statErr := os.Stat(Path(baseDir))
	assert.True(t, os.IsNotExist(statErr), "invalid config must not be written")
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	// Missing file is fine
	require.NoError(t, LoadEnvFile(filepath.Join(dir, ".env")))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("OPENCLAW_MODEL=gemini-test\n"), 0600))
	// godotenv does not override variables that already exist, and clearEnv
	// only blanks the others, so unset this one for the test.
	require.NoError(t, os.Unsetenv(EnvModel))
	t.Cleanup(func() { _ = os.Unsetenv(EnvModel) })

	require.NoError(t, LoadEnvFile(envPath))
	assert.Equal(t, "gemini-test", os.Getenv(EnvModel))
}

func TestRequireCredentials(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.RequireGitHubToken()
	require.Error(t, err)
	assert.True(t, ocerrors.Is(err, ocerrors.ErrMissingCredential))

	err = cfg.RequireAssistantKey()
	require.Error(t, err)
	assert.True(t, ocerrors.Is(err, ocerrors.ErrMissingCredential))

	cfg.GitHubToken = "tok"
	cfg.AssistantAPIKey = "key"
	assert.NoError(t, cfg.RequireGitHubToken())
	assert.NoError(t, cfg.RequireAssistantKey())
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGitHubToken, "from-env")
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(tmpDir), []byte(`{"github_branch":"dev"}`), 0600))

	cfg, err := LoadFile(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, "dev", cfg.GitHubBranch)
	assert.Equal(t, DefaultRepo, cfg.GitHubRepo)
}
