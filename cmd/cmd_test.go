package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/synthtutor/internal/store"
)

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Synthesis API"}`))
	})
	mux.HandleFunc("GET /api/modules", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"m1","name":"Introduction to Numbers","subject":"Math","difficulty":1,"locked":false,"requirements":[]},
			{"id":"m4","name":"Advanced Mathematics","subject":"Math","difficulty":3,"locked":false,"requirements":["Introduction to Numbers"]}
		]`))
	})
	mux.HandleFunc("GET /api/progress/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "s1" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"student_id":"s1","module_id":"m1","module_name":"Introduction to Numbers","completed":true,"score":80}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SYNTHTUTOR_JOURNAL", "")
	require.NoError(t, modulesCmd.Flags().Set("student", ""))
	require.NoError(t, eventsCmd.Flags().Set("kind", ""))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestPing(t *testing.T) {
	srv := backend(t)
	out, err := run(t, "ping", "--api", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Synthesis API")
}

func TestModulesWithoutStudent(t *testing.T) {
	srv := backend(t)
	out, err := run(t, "modules", "--api", srv.URL)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[2], "Introduction to Numbers")
	assert.Contains(t, lines[2], "open")
	assert.Contains(t, lines[3], "locked (requires Introduction to Numbers)")
}

func TestModulesWithStudent(t *testing.T) {
	srv := backend(t)
	out, err := run(t, "modules", "--api", srv.URL, "--student", "s1")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[2], "done")
	assert.Contains(t, lines[3], "open")
}

func TestProgress(t *testing.T) {
	srv := backend(t)
	out, err := run(t, "progress", "s1", "--api", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Introduction to Numbers")
	assert.Contains(t, out, "80%")

	out, err = run(t, "progress", "nobody", "--api", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No progress recorded.")
}

func TestPingUnreachable(t *testing.T) {
	srv := backend(t)
	url := srv.URL
	srv.Close()

	_, err := run(t, "ping", "--api", url)
	require.Error(t, err)
}

func TestEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	repo := st.EventRepo()
	ctx := context.Background()
	require.NoError(t, repo.AppendAPIRequest(ctx, store.APIRequestEventData{
		RequestID: "r1", Method: "GET", Endpoint: "/modules", StatusCode: 200, LatencyMs: 12, Success: true,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "chat", InputTokens: 1000, OutputTokens: 500, Success: true,
	}))
	require.NoError(t, st.Close())

	out, err := run(t, "events", "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, "/modules")
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "Estimated total: $")

	out, err = run(t, "events", "--journal", path, "--kind", "llm")
	require.NoError(t, err)
	assert.NotContains(t, out, "Backend calls")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "synthtutor")
}
