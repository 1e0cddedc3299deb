// Package config resolves runtime settings from defaults, an optional YAML
// file, a .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/synthtutor/internal/api"
	"github.com/abhisek/synthtutor/internal/capture"
	"github.com/abhisek/synthtutor/internal/llm"
)

// Chat modes.
const (
	ChatModeAPI    = "api"
	ChatModeDirect = "direct"
)

// Config is the resolved runtime configuration.
type Config struct {
	BackendURL string        `yaml:"backend_url" env:"SYNTHTUTOR_BACKEND_URL"`
	Timeout    time.Duration `yaml:"timeout" env:"SYNTHTUTOR_TIMEOUT"`

	// ChatMode is "api" (POST /chat) or "direct" (LLM provider).
	ChatMode string `yaml:"chat_mode" env:"SYNTHTUTOR_CHAT_MODE"`

	Journal  string `yaml:"journal" env:"SYNTHTUTOR_JOURNAL"`
	LogFile  string `yaml:"log_file" env:"SYNTHTUTOR_LOG_FILE"`
	LogLevel string `yaml:"log_level" env:"SYNTHTUTOR_LOG_LEVEL"`

	Capture CaptureConfig `yaml:"capture" envPrefix:"SYNTHTUTOR_CAPTURE_"`
	LLM     llm.Config    `yaml:"llm"`

	// Overrides for LLM settings that live in the nested provider config.
	LLMProvider string `yaml:"-" env:"SYNTHTUTOR_LLM_PROVIDER"`

	// LegacyBackendURL is read from the variable the web client used and
	// only applies when nothing else set the backend URL.
	LegacyBackendURL string `yaml:"-" env:"REACT_APP_BACKEND_URL"`
}

// CaptureConfig selects and tunes the camera backend.
type CaptureConfig struct {
	// Enabled turns the capture loop on when a student starts learning.
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Backend is "exec" or "dir".
	Backend  string        `yaml:"backend" env:"BACKEND"`
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
	// Command is the capture command for the exec backend.
	Command  []string `yaml:"command" env:"COMMAND" envSeparator:" "`
	MimeType string   `yaml:"mime_type" env:"MIME_TYPE"`
	// Dir holds the files replayed by the dir backend.
	Dir string `yaml:"dir" env:"DIR"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BackendURL: api.DefaultBaseURL,
		Timeout:    30 * time.Second,
		ChatMode:   ChatModeAPI,
		LogLevel:   "info",
		Capture: CaptureConfig{
			Backend:  "exec",
			Interval: capture.DefaultInterval,
			MimeType: capture.DefaultMimeType,
		},
		LLM: llm.DefaultConfig(),
	}
}

// Options control where Load looks.
type Options struct {
	// File is a YAML config file. Missing files are ignored unless Strict.
	File   string
	Strict bool
	// DotEnv files are loaded into the process environment without
	// overriding variables that are already set. Missing files are ignored.
	DotEnv []string
	// Environment replaces os.Environ when non-nil.
	Environment map[string]string
}

// Load resolves the configuration. Precedence, lowest first: defaults, YAML
// file, .env files, environment.
func Load(opts Options) (Config, error) {
	cfg := Default()

	var urlSet bool
	if opts.File != "" {
		set, err := loadYAML(opts.File, &cfg)
		if err != nil && (opts.Strict || !errors.Is(err, os.ErrNotExist)) {
			return Config{}, err
		}
		urlSet = set
	}

	if opts.Environment == nil {
		for _, f := range opts.DotEnv {
			if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	if err := env.Parse(&cfg, env.Options{Environment: opts.Environment}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if v, ok := lookupEnv(opts.Environment, "SYNTHTUTOR_BACKEND_URL"); ok && v != "" {
		urlSet = true
	}
	cfg.applyOverrides(urlSet)
	cfg.LLM.Discover()

	return cfg, cfg.Validate()
}

// loadYAML decodes path into cfg and reports whether the file names a
// backend URL.
func loadYAML(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return false, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	_, ok := keys["backend_url"]
	return ok, nil
}

func lookupEnv(environment map[string]string, key string) (string, bool) {
	if environment != nil {
		v, ok := environment[key]
		return v, ok
	}
	return os.LookupEnv(key)
}

// applyOverrides folds the flat override variables into their nested homes.
// The legacy backend variable only applies when urlSet is false.
func (c *Config) applyOverrides(urlSet bool) {
	if c.LegacyBackendURL != "" && !urlSet {
		c.BackendURL = c.LegacyBackendURL
	}
	if c.LLMProvider != "" {
		c.LLM.Provider = c.LLMProvider
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	c.ChatMode = strings.ToLower(c.ChatMode)
}

// Validate checks values that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("backend URL must not be empty")
	}
	switch c.ChatMode {
	case ChatModeAPI:
	case ChatModeDirect:
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("direct chat mode: %w", err)
		}
	default:
		return fmt.Errorf("unknown chat mode %q (want %q or %q)", c.ChatMode, ChatModeAPI, ChatModeDirect)
	}
	if c.Capture.Enabled {
		switch c.Capture.Backend {
		case "exec":
			if len(c.Capture.Command) == 0 {
				return errors.New("capture: exec backend needs a command")
			}
		case "dir":
			if c.Capture.Dir == "" {
				return errors.New("capture: dir backend needs a directory")
			}
		default:
			return fmt.Errorf("capture: unknown backend %q", c.Capture.Backend)
		}
	}
	return nil
}

// Camera builds the configured capture backend.
func (c CaptureConfig) Camera() capture.Camera {
	if c.Backend == "dir" {
		return capture.DirCamera{Dir: c.Dir}
	}
	return capture.ExecCamera{Command: c.Command, MimeType: c.MimeType}
}

// DefaultFile is the config file looked up when --config is not given.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "synthtutor", "config.yaml")
}
