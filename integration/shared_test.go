//go:build basic || database

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a shared pawnrank binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getPawnrankBinary returns the path to the pawnrank binary, building it once if needed.
func getPawnrankBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "pawnrank-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "pawnrank")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build pawnrank: %v\n%s", err, out))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// runPawnrank runs the CLI with an isolated HOME plus the given environment
// and returns its stdout. Stderr is only logged on failure.
func runPawnrank(t *testing.T, home string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getPawnrankBinary(), args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Env = append(cmd.Env, env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
	}
	return stdout.String(), err
}

// fakeLichess serves a tiny subset of the Lichess API for two players.
func fakeLichess(t *testing.T) *httptest.Server {
	t.Helper()
	users := map[string]map[string]any{
		"alice": {
			"id": "alice", "username": "Alice",
			"perfs": map[string]any{"blitz": map[string]any{"rating": 1150, "games": 40}},
		},
		"bob": {
			"id": "bob", "username": "Bob", "title": "FM",
			"perfs": map[string]any{"blitz": map[string]any{"rating": 2250, "games": 900}},
		},
	}
	history := []map[string]any{{
		"name": "Blitz",
		"points": [][]int{
			{2024, 0, 1, 880},
			{2024, 0, 15, 920},
			{2024, 1, 1, 1210},
			{2024, 1, 20, 1150},
		},
	}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := strings.TrimPrefix(r.URL.Path, "/api/user/")
		if name, ok := strings.CutSuffix(path, "/rating-history"); ok {
			if _, known := users[name]; !known {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(history)
			return
		}
		user, ok := users[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	}))
	t.Cleanup(srv.Close)
	return srv
}
