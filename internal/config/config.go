// Package config loads the YAML configuration of the msgrender CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-msgrender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config dir.
const AppDir = "go-msgrender"

// Field length limits.
const (
	MaxTemplateLength    = 200  // "{author} said {message}"
	MaxTextLength        = 500  // Warning and gate texts
	MaxLabelLength       = 100  // Link texts, placeholder
	MaxURLLength         = 2048 // Browser limit
	MaxTitleLength       = 200  // Gallery title
	MaxDateLength        = 30   // "auto:long" or "December 31, 2025"
	MaxStyleNameLength   = 50   // Chroma style name
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxKeyLength         = 30   // Platform and browser keys
	MaxMatrixEntries     = 32
)

// Config holds all configuration for rendering and export.
type Config struct {
	Strings  StringsConfig  `yaml:"strings"`
	Features FeaturesConfig `yaml:"features"`
	Gate     GateConfig     `yaml:"gate"`
	Composer ComposerConfig `yaml:"composer"`
	Gallery  GalleryConfig  `yaml:"gallery"`
	Export   ExportConfig   `yaml:"export"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// StringsConfig overrides renderer strings. Empty fields keep the defaults.
type StringsConfig struct {
	LiveAuthorIntro            string `yaml:"liveAuthorIntro"`
	MessageContentAriaText     string `yaml:"messageContentAriaText"`
	MessageContentMineAriaText string `yaml:"messageContentMineAriaText"`
	EditedTag                  string `yaml:"editedTag"`
	BlockedWarningText         string `yaml:"blockedWarningText"`
	BlockedWarningLinkText     string `yaml:"blockedWarningLinkText"`
}

// FeaturesConfig toggles renderer features. Nil means enabled.
type FeaturesConfig struct {
	Mentions           *bool `yaml:"mentions"`
	DataLossPrevention *bool `yaml:"dataLossPrevention"`
}

// MentionsEnabled reports whether mention rendering is on.
func (f FeaturesConfig) MentionsEnabled() bool {
	return f.Mentions == nil || *f.Mentions
}

// DataLossPreventionEnabled reports whether blocked messages render.
func (f FeaturesConfig) DataLossPreventionEnabled() bool {
	return f.DataLossPrevention == nil || *f.DataLossPrevention
}

// PageText is the text of one gate page.
type PageText struct {
	PrimaryText      string `yaml:"primaryText"`
	SecondaryText    string `yaml:"secondaryText"`
	MoreHelpLinkText string `yaml:"moreHelpLinkText"`
}

// GateConfig defines the browser support gate.
type GateConfig struct {
	TroubleshootingURL string         `yaml:"troubleshootingURL"`
	OperatingSystem    PageText       `yaml:"operatingSystem"`
	Browser            PageText       `yaml:"browser"`
	BrowserVersion     PageText       `yaml:"browserVersion"`
	Platforms          []string       `yaml:"platforms"` // Empty = default matrix
	Browsers           map[string]int `yaml:"browsers"`  // Minimum major version per browser
}

// ComposerConfig defines composer options.
type ComposerConfig struct {
	Placeholder string `yaml:"placeholder"`
}

// GalleryConfig defines the story gallery document.
type GalleryConfig struct {
	Title          string `yaml:"title"`
	Date           string `yaml:"date"`       // "auto", "auto:FORMAT" or a literal date
	IndexTitle     string `yaml:"indexTitle"` // Empty = default title
	HideIndex      bool   `yaml:"hideIndex"`
	HighlightStyle string `yaml:"highlightStyle"`
}

// ExportConfig defines PDF export.
type ExportConfig struct {
	PageSize       string  `yaml:"pageSize"`    // "letter", "a4", "legal"
	Orientation    string  `yaml:"orientation"` // "portrait", "landscape"
	Margin         float64 `yaml:"margin"`      // inches, 0 = default
	FooterText     string  `yaml:"footerText"`
	ShowPageNumber bool    `yaml:"showPageNumber"`
	Timeout        string  `yaml:"timeout"` // Go duration, e.g. "45s"
	Workers        int     `yaml:"workers"` // 0 = auto
}

// TimeoutDuration parses Timeout. Returns 0 when unset.
func (e ExportConfig) TimeoutDuration() (time.Duration, error) {
	if e.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: export.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: export.timeout: must be positive, got %s", ErrInvalidValue, e.Timeout)
	}
	return d, nil
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and value ranges.
// Called by LoadConfig; available for configs built in code.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"strings.liveAuthorIntro", c.Strings.LiveAuthorIntro, MaxTemplateLength},
		{"strings.messageContentAriaText", c.Strings.MessageContentAriaText, MaxTemplateLength},
		{"strings.messageContentMineAriaText", c.Strings.MessageContentMineAriaText, MaxTemplateLength},
		{"strings.editedTag", c.Strings.EditedTag, MaxLabelLength},
		{"strings.blockedWarningText", c.Strings.BlockedWarningText, MaxTextLength},
		{"strings.blockedWarningLinkText", c.Strings.BlockedWarningLinkText, MaxLabelLength},
		{"gate.troubleshootingURL", c.Gate.TroubleshootingURL, MaxURLLength},
		{"composer.placeholder", c.Composer.Placeholder, MaxLabelLength},
		{"gallery.title", c.Gallery.Title, MaxTitleLength},
		{"gallery.date", c.Gallery.Date, MaxDateLength},
		{"gallery.indexTitle", c.Gallery.IndexTitle, MaxTitleLength},
		{"gallery.highlightStyle", c.Gallery.HighlightStyle, MaxStyleNameLength},
		{"export.pageSize", c.Export.PageSize, MaxPageSizeLength},
		{"export.orientation", c.Export.Orientation, MaxOrientationLength},
		{"export.footerText", c.Export.FooterText, MaxTextLength},
		{"assets.basePath", c.Assets.BasePath, MaxURLLength},
	}
	for _, ch := range checks {
		if err := validateFieldLength(ch.field, ch.value, ch.max); err != nil {
			return err
		}
	}

	pages := []struct {
		name string
		text PageText
	}{
		{"gate.operatingSystem", c.Gate.OperatingSystem},
		{"gate.browser", c.Gate.Browser},
		{"gate.browserVersion", c.Gate.BrowserVersion},
	}
	for _, p := range pages {
		if err := validateFieldLength(p.name+".primaryText", p.text.PrimaryText, MaxTextLength); err != nil {
			return err
		}
		if err := validateFieldLength(p.name+".secondaryText", p.text.SecondaryText, MaxTextLength); err != nil {
			return err
		}
		if err := validateFieldLength(p.name+".moreHelpLinkText", p.text.MoreHelpLinkText, MaxLabelLength); err != nil {
			return err
		}
	}

	if len(c.Gate.Platforms) > MaxMatrixEntries || len(c.Gate.Browsers) > MaxMatrixEntries {
		return fmt.Errorf("%w: gate matrix has more than %d entries", ErrInvalidValue, MaxMatrixEntries)
	}
	for i, p := range c.Gate.Platforms {
		if err := validateFieldLength(fmt.Sprintf("gate.platforms[%d]", i), p, MaxKeyLength); err != nil {
			return err
		}
	}
	for name, version := range c.Gate.Browsers {
		if err := validateFieldLength("gate.browsers key", name, MaxKeyLength); err != nil {
			return err
		}
		if version < 0 {
			return fmt.Errorf("%w: gate.browsers.%s: version must be >= 0, got %d", ErrInvalidValue, name, version)
		}
	}

	if c.Export.Orientation != "" {
		switch strings.ToLower(c.Export.Orientation) {
		case "portrait", "landscape":
		default:
			return fmt.Errorf("%w: export.orientation: %q (must be portrait or landscape)", ErrInvalidValue, c.Export.Orientation)
		}
	}
	if c.Export.Margin < 0 {
		return fmt.Errorf("%w: export.margin: must be >= 0, got %.2f", ErrInvalidValue, c.Export.Margin)
	}
	if c.Export.Workers < 0 {
		return fmt.Errorf("%w: export.workers: must be >= 0, got %d", ErrInvalidValue, c.Export.Workers)
	}
	if _, err := c.Export.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that keeps every library default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from MSGRENDER_* environment variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str("MSGRENDER_ASSETS", &c.Assets.BasePath)
	str("MSGRENDER_TROUBLESHOOTING_URL", &c.Gate.TroubleshootingURL)
	str("MSGRENDER_GALLERY_TITLE", &c.Gallery.Title)
	str("MSGRENDER_GALLERY_DATE", &c.Gallery.Date)
	str("MSGRENDER_PAGE_SIZE", &c.Export.PageSize)
	str("MSGRENDER_TIMEOUT", &c.Export.Timeout)

	flags := []struct {
		key string
		dst **bool
	}{
		{"MSGRENDER_MENTIONS", &c.Features.Mentions},
		{"MSGRENDER_DLP", &c.Features.DataLossPrevention},
	}
	for _, f := range flags {
		v, ok := lookup(f.key)
		if !ok {
			continue
		}
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, f.key, err)
		}
		*f.dst = &b
	}
	return c.Validate()
}

// parseBool accepts the usual spellings of a boolean environment value.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, user config dir/go-msgrender/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Tried: triedPaths}
}

// NotFoundError lists the paths searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

// Unwrap lets errors.Is match ErrConfigNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
