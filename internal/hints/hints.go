// Package hints builds actionable hints appended to CLI error messages.
// Every hint is formatted as "\n  hint: <text>".
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-msgrender/internal/fileutil"
)

// IsInContainer reports whether the process runs in Docker or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ciVariables are set by common CI runners.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"}

func inCI() bool {
	for _, v := range ciVariables {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests rod environment variables when Chrome cannot
// start, which usually happens in containers and CI runners.
func ForBrowserConnect() string {
	var tips []string
	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		tips = append(tips, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		tips = append(tips, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	tips = append(tips, "run 'msgrender doctor' to check the setup")
	return join(tips)
}

// ForTimeout suggests a longer export timeout.
func ForTimeout() string {
	return format("for large galleries, raise --timeout or export.timeout")
}

// ForConfigNotFound suggests --config, or creating the config in the user
// config directory when that location was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	marker := string(filepath.Separator) + "go-msgrender" + string(filepath.Separator)
	for _, p := range searchedPaths {
		if strings.Contains(p, marker) {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory suggests checking the output location.
func ForOutputDirectory() string {
	return format("check the output directory is writable")
}

// ForFixture explains the expected shape of a YAML fixture file.
func ForFixture(kind string) string {
	switch kind {
	case "messages":
		return format("expected a YAML list of messages with messageId, content and contentType")
	case "blocked":
		return format("expected a YAML list of blocked messages with messageId and optional warningText, link and linkText")
	case "attachments":
		return format("expected a YAML map of inline image id to URL")
	case "stories":
		return format("expected a YAML list of stories with at least a name")
	case "environment":
		return format("pass --user-agent or a YAML environment with isSupportedPlatform, isSupportedBrowser and isSupportedBrowserVersion")
	}
	return ""
}

// ForChoices lists the accepted values of an option. Returns "" without choices.
func ForChoices(choices []string) string {
	if len(choices) == 0 {
		return ""
	}
	return format("valid values: " + strings.Join(choices, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// join formats several tips as one hint.
func join(tips []string) string {
	if len(tips) == 0 {
		return ""
	}
	return format(strings.Join(tips, "; "))
}
