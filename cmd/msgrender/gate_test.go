package main

import (
	"strings"
	"testing"
)

const (
	chrome120Windows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	chrome90Windows  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.93 Safari/537.36"
	operaWindows     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 OPR/106.0.0.0"
)

// ---------------------------------------------------------------------------
// TestRunGate_UserAgent
// ---------------------------------------------------------------------------

func TestRunGate_UserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
		wantOut   string
		wantPage  string
	}{
		{name: "supported", userAgent: chrome120Windows, wantOut: "supported\n"},
		{name: "old chrome", userAgent: chrome90Windows, wantOut: `data-ui-id="unsupported-browser-version"`, wantPage: "unsupported-browser-version"},
		{name: "opera", userAgent: operaWindows, wantOut: `data-ui-id="unsupported-browser"`, wantPage: "unsupported-browser"},
		{name: "unknown platform", userAgent: "curl/8.0", wantOut: `data-ui-id="unsupported-operating-system"`, wantPage: "unsupported-operating-system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv("")
			if code := te.run(t, "gate", "--user-agent", tt.userAgent); code != ExitSuccess {
				t.Fatalf("exit code = %d (stderr: %s)", code, te.stderr)
			}
			if !strings.Contains(te.stdout.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", te.stdout, tt.wantOut)
			}
			if tt.wantPage != "" && !strings.Contains(te.stderr.String(), "Unsupported environment: "+tt.wantPage) {
				t.Errorf("stderr = %q", te.stderr)
			}
		})
	}
}

func TestRunGate_Document(t *testing.T) {
	t.Parallel()

	te := newTestEnv("")
	te.vars["MSGRENDER_TROUBLESHOOTING_URL"] = "https://help.test/calls"
	if code := te.run(t, "gate", "-u", chrome90Windows, "--document", "-q"); code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, te.stderr)
	}
	out := te.stdout.String()
	for _, want := range []string{"<!DOCTYPE html>", "<style>", "Browser update needed", `href="https://help.test/calls"`} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if te.stderr.Len() != 0 {
		t.Errorf("quiet stderr = %q", te.stderr)
	}
}

func TestRunGate_EnvironmentFixture(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFixture(t, dir, "env.yaml", "isSupportedPlatform: true\nisSupportedBrowser: false\nisSupportedBrowserVersion: false\n")

	te := newTestEnv("")
	if code := te.run(t, "gate", input); code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, te.stderr)
	}
	if !strings.Contains(te.stdout.String(), "Browser not supported") {
		t.Errorf("output = %q", te.stdout)
	}

	stdin := newTestEnv("isSupportedPlatform: true\nisSupportedBrowser: true\nisSupportedBrowserVersion: true\n")
	if code := stdin.run(t, "gate"); code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, stdin.stderr)
	}
	if stdin.stdout.String() != supportedLine {
		t.Errorf("output = %q, want %q", stdin.stdout, supportedLine)
	}
}

func TestRunGate_ConfigMatrix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := writeFixture(t, dir, "strict.yaml", `
gate:
  browsers:
    Chrome: 130
  browserVersion:
    primaryText: Chrome 130 or later is required
`)

	te := newTestEnv("")
	if code := te.run(t, "gate", "-c", cfg, "-u", chrome120Windows); code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, te.stderr)
	}
	out := te.stdout.String()
	if !strings.Contains(out, "Chrome 130 or later is required") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Please update your browser") {
		t.Errorf("default secondary text missing: %q", out)
	}
}

func TestRunGate_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFixture(t, dir, "env.yaml", "isSupportedPlatform: true\n")
	bad := writeFixture(t, dir, "bad.yaml", "isSupportedPlatform: true\nos: plan9\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		contains string
	}{
		{name: "agent and file", args: []string{"gate", "-u", chrome120Windows, input}, wantCode: ExitUsage, contains: "exclusive"},
		{name: "unknown field", args: []string{"gate", bad}, wantCode: ExitUsage, contains: "--user-agent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv("")
			if code := te.run(t, tt.args...); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(te.stderr.String(), tt.contains) {
				t.Errorf("stderr = %q, want %q", te.stderr, tt.contains)
			}
		})
	}
}
