package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	ocerrors "github.com/faegents/openclaw/internal/errors"
)

// Defaults for a fresh install.
const (
	DefaultRepo            = "faegents/conductor-workspace"
	DefaultBranch          = "main"
	DefaultModel           = "gemini-2.5-flash"
	DefaultRefreshInterval = 30
	DefaultTodoLimit       = 30
	DefaultLogLevel        = "info"
)

// FileName is the config file name inside the base directory.
const FileName = "config.json"

// Config holds application configuration.
type Config struct {
	// AssistantAPIKey authenticates against the assistant model API
	AssistantAPIKey string `json:"assistant_api_key,omitempty"`

	// GitHubToken is a token with read access to the workspace repository
	GitHubToken string `json:"github_token,omitempty"`

	// GitHubRepo identifies the workspace repository as "owner/name"
	GitHubRepo string `json:"github_repo" validate:"required,repo"`

	// GitHubBranch is the ref the workspace documents are read from
	GitHubBranch string `json:"github_branch" validate:"required"`

	// Model is the assistant model used by chat
	Model string `json:"model,omitempty"`

	// RefreshInterval is the live dashboard refresh period in seconds
	RefreshInterval int `json:"refresh_interval,omitempty" validate:"omitempty,min=1"`

	// TodoLimit caps the number of todo items kept for display (1..30)
	TodoLimit int `json:"todo_limit,omitempty" validate:"omitempty,min=1,max=30"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Environment variables that override the config file.
const (
	EnvAssistantKey = "GEMINI_API_KEY"
	EnvGoogleKey    = "GOOGLE_API_KEY"
	EnvGitHubToken  = "GITHUB_TOKEN"
	EnvRepo         = "OPENCLAW_REPO"
	EnvBranch       = "OPENCLAW_BRANCH"
	EnvModel        = "OPENCLAW_MODEL"
	EnvRefresh      = "OPENCLAW_REFRESH_INTERVAL"
	EnvLogLevel     = "OPENCLAW_LOG_LEVEL"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GitHubRepo:      DefaultRepo,
		GitHubBranch:    DefaultBranch,
		Model:           DefaultModel,
		RefreshInterval: DefaultRefreshInterval,
		TodoLimit:       DefaultTodoLimit,
		LogLevel:        DefaultLogLevel,
	}
}

// Path returns the config file path for baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, FileName)
}

// Load loads configuration from baseDir/config.json and the environment.
// Precedence: environment > file > defaults. A missing file is not an error.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.openclaw.
func Load(baseDir string) (*Config, error) {
	file, err := loadFileRaw(Path(baseDir))
	if err != nil {
		return nil, err
	}
	return Merge(Merge(DefaultConfig(), file), FromEnv(os.LookupEnv)), nil
}

// LoadFile loads baseDir/config.json over the defaults, ignoring the
// environment. The configure wizard edits this view so that values coming
// from the environment are not written to disk.
func LoadFile(baseDir string) (*Config, error) {
	file, err := loadFileRaw(Path(baseDir))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), file), nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is ignored.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// FromEnv builds an overlay config from environment variables.
// Unset or blank variables leave the corresponding field zero.
func FromEnv(lookup func(string) (string, bool)) *Config {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		AssistantAPIKey: get(EnvAssistantKey),
		GitHubToken:     get(EnvGitHubToken),
		GitHubRepo:      get(EnvRepo),
		GitHubBranch:    get(EnvBranch),
		Model:           get(EnvModel),
		LogLevel:        strings.ToLower(get(EnvLogLevel)),
	}
	if cfg.AssistantAPIKey == "" {
		cfg.AssistantAPIKey = get(EnvGoogleKey)
	}
	if n, err := strconv.Atoi(get(EnvRefresh)); err == nil && n > 0 {
		cfg.RefreshInterval = n
	}
	return cfg
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence when non-zero.
func Merge(base, overlay *Config) *Config {
	return &Config{
		AssistantAPIKey: pick(overlay.AssistantAPIKey, base.AssistantAPIKey),
		GitHubToken:     pick(overlay.GitHubToken, base.GitHubToken),
		GitHubRepo:      pick(overlay.GitHubRepo, base.GitHubRepo),
		GitHubBranch:    pick(overlay.GitHubBranch, base.GitHubBranch),
		Model:           pick(overlay.Model, base.Model),
		RefreshInterval: pick(overlay.RefreshInterval, base.RefreshInterval),
		TodoLimit:       pick(overlay.TodoLimit, base.TodoLimit),
		LogLevel:        pick(overlay.LogLevel, base.LogLevel),
	}
}

// pick returns v unless it is the zero value, in which case fallback.
func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// repoPattern matches a GitHub "owner/name" identifier.
var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// newValidator returns a validator with the custom "repo" tag registered.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("repo", func(fl validator.FieldLevel) bool {
		return repoPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks field constraints and returns an INVALID_CONFIG error
// naming the first offending field.
func Validate(cfg *Config) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "repo":
			return ocerrors.NewInvalidConfig(fmt.Sprintf("github_repo %q must be in owner/name form", fe.Value()))
		case "required":
			return ocerrors.NewInvalidConfig(fmt.Sprintf("%s is required", fe.Field()))
		default:
			return ocerrors.NewInvalidConfig(fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return ocerrors.NewInvalidConfig(err.Error())
}

// Save validates cfg and writes it to baseDir/config.json with 0600 perms.
func Save(baseDir string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return ocerrors.NewInternal(err)
	}

	configPath := Path(baseDir)
	if err := os.WriteFile(configPath, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	// Explicit chmod (best-effort) in case the file already existed
	_ = os.Chmod(configPath, 0600)

	return nil
}

// RequireGitHubToken returns a MISSING_CREDENTIAL error when no token is set.
func (c *Config) RequireGitHubToken() error {
	if c.GitHubToken == "" {
		return ocerrors.NewMissingCredential(EnvGitHubToken, "Run: oc configure")
	}
	return nil
}

// RequireAssistantKey returns a MISSING_CREDENTIAL error when no assistant key is set.
func (c *Config) RequireAssistantKey() error {
	if c.AssistantAPIKey == "" {
		return ocerrors.NewMissingCredential(EnvAssistantKey, "Run: oc configure")
	}
	return nil
}
