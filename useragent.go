package msgrender

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Platform names reported by DetectEnvironment.
const (
	PlatformWindows  = "windows"
	PlatformMacOS    = "macos"
	PlatformIOS      = "ios"
	PlatformAndroid  = "android"
	PlatformLinux    = "linux"
	PlatformChromeOS = "chromeos"
)

// Browser names reported by DetectEnvironment.
const (
	BrowserChrome  = "chrome"
	BrowserEdge    = "edge"
	BrowserFirefox = "firefox"
	BrowserSafari  = "safari"
	BrowserOpera   = "opera"
	BrowserSamsung = "samsung"
)

// SupportMatrix lists the supported platforms and the minimum major version
// of each supported browser.
type SupportMatrix struct {
	Platforms []string       `yaml:"platforms"`
	Browsers  map[string]int `yaml:"browsers"`
}

// DefaultSupportMatrix returns the environments calling works in.
func DefaultSupportMatrix() SupportMatrix {
	return SupportMatrix{
		Platforms: []string{PlatformWindows, PlatformMacOS, PlatformIOS, PlatformAndroid, PlatformLinux},
		Browsers: map[string]int{
			BrowserChrome:  110,
			BrowserEdge:    110,
			BrowserFirefox: 110,
			BrowserSafari:  15,
		},
	}
}

// browserPatterns are checked in order; Chromium derivatives first since
// their user agents also contain Chrome and Safari tokens.
var browserPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{BrowserEdge, regexp.MustCompile(`Edg(?:e|A|iOS)?/(\d+)`)},
	{BrowserOpera, regexp.MustCompile(`(?:OPR|Opera)/(\d+)`)},
	{BrowserSamsung, regexp.MustCompile(`SamsungBrowser/(\d+)`)},
	{BrowserFirefox, regexp.MustCompile(`(?:Firefox|FxiOS)/(\d+)`)},
	{BrowserChrome, regexp.MustCompile(`(?:Chrome|CriOS)/(\d+)`)},
	{BrowserSafari, regexp.MustCompile(`Version/(\d+)[\d.]* (?:Mobile/\S+ )?Safari/`)},
}

// detectPlatform maps user agent tokens to a platform name.
func detectPlatform(ua string) string {
	switch {
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"), strings.Contains(ua, "iPod"):
		return PlatformIOS
	case strings.Contains(ua, "Android"):
		return PlatformAndroid
	case strings.Contains(ua, "Windows"):
		return PlatformWindows
	case strings.Contains(ua, "CrOS"):
		return PlatformChromeOS
	case strings.Contains(ua, "Macintosh"), strings.Contains(ua, "Mac OS X"):
		return PlatformMacOS
	case strings.Contains(ua, "Linux"), strings.Contains(ua, "X11"):
		return PlatformLinux
	}
	return ""
}

// detectBrowser returns the browser name and major version.
func detectBrowser(ua string) (string, int) {
	for _, b := range browserPatterns {
		if m := b.pattern.FindStringSubmatch(ua); m != nil {
			major, err := strconv.Atoi(m[1])
			if err != nil {
				return b.name, 0
			}
			return b.name, major
		}
	}
	return "", 0
}

// DetectEnvironment derives environment support from a user agent string.
// A browser that is not in the matrix is unsupported, and so is its version.
func DetectEnvironment(userAgent string, matrix SupportMatrix) EnvironmentInfo {
	platform := detectPlatform(userAgent)
	browser, major := detectBrowser(userAgent)

	env := EnvironmentInfo{
		Platform:            platform,
		Browser:             browser,
		IsSupportedPlatform: platform != "" && slices.Contains(matrix.Platforms, platform),
	}
	if major > 0 {
		env.BrowserVersion = strconv.Itoa(major)
	}
	minVersion, known := matrix.Browsers[browser]
	env.IsSupportedBrowser = browser != "" && known
	env.IsSupportedBrowserVersion = env.IsSupportedBrowser && major >= minVersion
	return env
}
