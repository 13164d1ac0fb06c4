package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	msgrender "github.com/alnah/go-msgrender"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// testEnv is an Environment with captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string
	pool   *mockPool
}

// newTestEnv returns an environment with stdin set to input, an empty
// process environment and a mock exporter pool.
func newTestEnv(input string) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		vars:   map[string]string{},
		pool:   &mockPool{},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(input),
		Stdout: te.stdout,
		Stderr: te.stderr,
		LookupEnv: func(key string) (string, bool) {
			v, ok := te.vars[key]
			return v, ok
		},
		NewExportPool: func(workers int, opts ...msgrender.ExporterOption) exportPool {
			te.pool.mu.Lock()
			te.pool.workers = workers
			te.pool.optCount = len(opts)
			te.pool.mu.Unlock()
			return te.pool
		},
	}
	return te
}

// run executes the CLI with args after the program name.
func (te *testEnv) run(t *testing.T, args ...string) int {
	t.Helper()
	return runMain(context.Background(), append([]string{"msgrender"}, args...), te.Environment)
}

// writeFixture writes content to name under dir and returns the path.
func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// mockPool records export jobs and returns fake PDFs.
type mockPool struct {
	mu       sync.Mutex
	workers  int
	optCount int
	jobs     []msgrender.ExportJob
	err      error
	closed   bool
}

func (m *mockPool) ExportAll(_ context.Context, jobs []msgrender.ExportJob) []msgrender.ExportResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, jobs...)
	results := make([]msgrender.ExportResult, len(jobs))
	for i, job := range jobs {
		results[i] = msgrender.ExportResult{Name: job.Name}
		if m.err != nil {
			results[i].Err = m.err
			continue
		}
		results[i].PDF = []byte("%PDF-1.7 " + filepath.Base(job.Name))
	}
	return results
}

func (m *mockPool) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.workers
}

func (m *mockPool) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
