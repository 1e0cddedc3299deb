package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(Options{Environment: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8001", cfg.BackendURL)
	assert.Equal(t, ChatModeAPI, cfg.ChatMode)
	assert.Equal(t, 2*time.Second, cfg.Capture.Interval)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestBackendURLPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"legacy only", map[string]string{"REACT_APP_BACKEND_URL": "http://legacy:9000"}, "http://legacy:9000"},
		{"primary wins", map[string]string{
			"REACT_APP_BACKEND_URL":  "http://legacy:9000",
			"SYNTHTUTOR_BACKEND_URL": "http://primary:9000/",
		}, "http://primary:9000"},
		{"neither", map[string]string{}, "http://localhost:8001"},
		{"primary equal to default", map[string]string{
			"REACT_APP_BACKEND_URL":  "http://legacy:9000",
			"SYNTHTUTOR_BACKEND_URL": "http://localhost:8001",
		}, "http://localhost:8001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(Options{Environment: tt.env})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.BackendURL)
		})
	}
}

func TestYAMLThenEnvironment(t *testing.T) {
	path := writeFile(t, "config.yaml", `
backend_url: http://from-file:8001
timeout: 5s
chat_mode: direct
llm:
  provider: mock
capture:
  enabled: true
  backend: dir
  dir: /tmp/frames
  interval: 3s
`)
	cfg, err := Load(Options{
		File:        path,
		Environment: map[string]string{"SYNTHTUTOR_TIMEOUT": "7s", "REACT_APP_BACKEND_URL": "http://ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:8001", cfg.BackendURL)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, ChatModeDirect, cfg.ChatMode)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 3*time.Second, cfg.Capture.Interval)
	assert.Equal(t, "/tmp/frames", cfg.Capture.Dir)
}

func TestYAMLDefaultURLBeatsLegacy(t *testing.T) {
	path := writeFile(t, "config.yaml", "backend_url: http://localhost:8001\n")
	cfg, err := Load(Options{
		File:        path,
		Environment: map[string]string{"REACT_APP_BACKEND_URL": "http://legacy:9000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8001", cfg.BackendURL)
}

func TestMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(Options{File: missing, Environment: map[string]string{}})
	assert.NoError(t, err)

	_, err = Load(Options{File: missing, Strict: true, Environment: map[string]string{}})
	assert.Error(t, err)
}

func TestCaptureFromEnvironment(t *testing.T) {
	cfg, err := Load(Options{Environment: map[string]string{
		"SYNTHTUTOR_CAPTURE_ENABLED": "true",
		"SYNTHTUTOR_CAPTURE_COMMAND": "ffmpeg -f v4l2 -t 2 -f webm -",
	}})
	require.NoError(t, err)
	assert.True(t, cfg.Capture.Enabled)
	assert.Equal(t, []string{"ffmpeg", "-f", "v4l2", "-t", "2", "-f", "webm", "-"}, cfg.Capture.Command)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad chat mode", map[string]string{"SYNTHTUTOR_CHAT_MODE": "carrier-pigeon"}},
		{"direct with unknown provider", map[string]string{"SYNTHTUTOR_CHAT_MODE": "direct", "SYNTHTUTOR_LLM_PROVIDER": "nope"}},
		{"exec capture without command", map[string]string{"SYNTHTUTOR_CAPTURE_ENABLED": "true"}},
		{"dir capture without dir", map[string]string{"SYNTHTUTOR_CAPTURE_ENABLED": "true", "SYNTHTUTOR_CAPTURE_BACKEND": "dir"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Options{Environment: tt.env})
			assert.Error(t, err)
		})
	}
}

func TestDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "SYNTHTUTOR_CHAT_MODE=direct\nSYNTHTUTOR_LLM_PROVIDER=mock\n")
	t.Setenv("SYNTHTUTOR_CHAT_MODE", "")
	os.Unsetenv("SYNTHTUTOR_CHAT_MODE")
	t.Setenv("SYNTHTUTOR_LLM_PROVIDER", "")
	os.Unsetenv("SYNTHTUTOR_LLM_PROVIDER")

	cfg, err := Load(Options{DotEnv: []string{path, filepath.Join(t.TempDir(), "missing.env")}})
	require.NoError(t, err)
	assert.Equal(t, ChatModeDirect, cfg.ChatMode)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}
