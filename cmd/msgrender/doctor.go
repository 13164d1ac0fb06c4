package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-msgrender/internal/fileutil"
)

// Doctor statuses.
const (
	doctorReady    = "ready"
	doctorWarnings = "warnings"
	doctorErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Assets   assetsInfo `json:"assets"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results. Chrome is only
// needed for gallery PDF export.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// assetsInfo reports the custom asset directory, if any.
type assetsInfo struct {
	BasePath string `json:"base_path,omitempty"`
	Valid    bool   `json:"valid"`
}

// runDoctorCmd executes the doctor command and returns an exit code:
// ExitSuccess when ready (warnings included), ExitGeneral on errors.
func runDoctorCmd(args []string, env *Environment) int {
	fs := newFlagSet("doctor", env.Stderr, printDoctorUsage)
	jsonOutput := fs.Bool("json", false, "print results as JSON")
	if err := parseFlagSet(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "msgrender doctor: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(env.lookupEnv())
	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == doctorErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(lookup func(string) (string, bool)) *doctorResult {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	result := &doctorResult{
		Status: doctorReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  get("ROD_NO_SANDBOX"),
			BrowserBin: get("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result, get)
	checkSystem(result)
	checkAssets(result, get("MSGRENDER_ASSETS"))

	if len(result.Errors) > 0 {
		result.Status = doctorErrors
	} else if len(result.Warnings) > 0 {
		result.Status = doctorWarnings
	}
	return result
}

// checkChrome locates Chrome. A missing browser is a warning: only
// gallery --pdf needs it.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; gallery --pdf is unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s (ROD_BROWSER_BIN)", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from rod lookup or user env
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, get func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(get)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"} {
		if get(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer reports whether the process runs in a container and which
// signal revealed it.
func isContainer(get func(string) string) (bool, string) {
	if get("MSGRENDER_CONTAINER") == "1" {
		return true, "MSGRENDER_CONTAINER=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := get("container"); v != "" {
		return true, "container=" + v
	}
	if get("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for PDF export is writable.
func checkSystem(result *doctorResult) {
	_, cleanup, err := fileutil.WriteTempFile("doctor", "html")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	cleanup()
	result.System.TempWritable = true
}

// checkAssets verifies MSGRENDER_ASSETS points to a directory.
func checkAssets(result *doctorResult, basePath string) {
	result.Assets.BasePath = basePath
	if basePath == "" {
		result.Assets.Valid = true
		return
	}
	info, err := os.Stat(basePath)
	if err != nil || !info.IsDir() {
		result.Errors = append(result.Errors, fmt.Sprintf("MSGRENDER_ASSETS is not a directory: %s", basePath))
		return
	}
	result.Assets.Valid = true
}

// Report line levels.
const (
	levelOK    = "OK"
	levelWarn  = "WARN"
	levelError = "ERROR"
)

// reportLine is one checked item in the human-readable report.
type reportLine struct {
	level string
	text  string
}

// reportSection groups report lines under a heading.
type reportSection struct {
	title string
	lines []reportLine
}

var doctorStatusText = map[string]string{
	doctorReady:    "Ready",
	doctorWarnings: "Ready with warnings",
	doctorErrors:   "Not ready (see errors above)",
}

// doctorSections lays out r as report sections. Empty sections are dropped.
func doctorSections(r *doctorResult) []reportSection {
	chrome := reportSection{title: "Chrome/Chromium (PDF export)"}
	if r.Chrome.Found {
		chrome.lines = append(chrome.lines, reportLine{levelOK, "Found at " + r.Chrome.Path})
		if r.Chrome.Version != "" {
			chrome.lines = append(chrome.lines, reportLine{levelOK, "Version: " + r.Chrome.Version})
		}
		sandbox := "Sandbox: enabled"
		if !r.Chrome.Sandbox {
			sandbox = "Sandbox: disabled (ROD_NO_SANDBOX=1)"
		}
		chrome.lines = append(chrome.lines, reportLine{levelOK, sandbox})
	} else {
		chrome.lines = append(chrome.lines, reportLine{levelWarn, "Not found"})
	}

	environment := reportSection{title: "Environment", lines: []reportLine{
		{levelOK, fmt.Sprintf("Platform: %s/%s", r.Env.OS, r.Env.Arch)},
	}}
	if r.Env.Container {
		environment.lines = append(environment.lines, reportLine{levelOK, fmt.Sprintf("Container: detected (%s)", r.Env.ContainerHint)})
	}
	if r.Env.CI {
		environment.lines = append(environment.lines, reportLine{levelOK, "CI: detected"})
	}

	system := reportSection{title: "System"}
	if r.System.TempWritable {
		system.lines = append(system.lines, reportLine{levelOK, "Temp directory: writable"})
	} else {
		system.lines = append(system.lines, reportLine{levelError, "Temp directory: not writable"})
	}
	switch {
	case r.Assets.BasePath == "":
		system.lines = append(system.lines, reportLine{levelOK, "Assets: embedded"})
	case r.Assets.Valid:
		system.lines = append(system.lines, reportLine{levelOK, "Assets: " + r.Assets.BasePath})
	default:
		system.lines = append(system.lines, reportLine{levelError, "Assets: " + r.Assets.BasePath})
	}

	sections := []reportSection{
		chrome,
		environment,
		system,
		{title: "Warnings:", lines: linesAt(levelWarn, r.Warnings)},
		{title: "Errors:", lines: linesAt(levelError, r.Errors)},
	}
	return slices.DeleteFunc(sections, func(s reportSection) bool { return len(s.lines) == 0 })
}

func linesAt(level string, texts []string) []reportLine {
	lines := make([]reportLine, len(texts))
	for i, t := range texts {
		lines[i] = reportLine{level: level, text: t}
	}
	return lines
}

// printDoctorResult writes the human-readable report.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprint(w, "msgrender doctor\n\n")
	for _, section := range doctorSections(r) {
		fmt.Fprintln(w, section.title)
		for _, l := range section.lines {
			fmt.Fprintf(w, "  [%s] %s\n", l.level, l.text)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Status: %s\n", doctorStatusText[r.Status])
}
