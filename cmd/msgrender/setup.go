package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	msgrender "github.com/alnah/go-msgrender"
	"github.com/alnah/go-msgrender/internal/config"
	"github.com/alnah/go-msgrender/internal/hints"
)

// loadConfig loads the named config, or the defaults when name is empty,
// then applies MSGRENDER_* environment overrides.
func loadConfig(name string, env *Environment) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			var notFound *config.NotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(notFound.Tried))
			}
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(env.lookupEnv()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRenderer builds a renderer from the config strings and features.
func newRenderer(cfg *config.Config, logger *zap.Logger) *msgrender.Renderer {
	s := cfg.Strings
	return msgrender.NewRenderer(
		msgrender.WithLogger(logger),
		msgrender.WithStrings(msgrender.Strings{
			LiveAuthorIntro:            s.LiveAuthorIntro,
			MessageContentAriaText:     s.MessageContentAriaText,
			MessageContentMineAriaText: s.MessageContentMineAriaText,
			EditedTag:                  s.EditedTag,
			BlockedWarningText:         s.BlockedWarningText,
			BlockedWarningLinkText:     s.BlockedWarningLinkText,
		}),
		msgrender.WithFeatures(msgrender.Features{
			Mentions:           cfg.Features.MentionsEnabled(),
			DataLossPrevention: cfg.Features.DataLossPreventionEnabled(),
		}),
	)
}

// newGate builds the gate from the config page texts. assetPath overrides
// assets.basePath when set.
func newGate(cfg *config.Config, assetPath string) (*msgrender.Gate, error) {
	if assetPath == "" {
		assetPath = cfg.Assets.BasePath
	}
	page := func(p config.PageText) msgrender.PageStrings {
		return msgrender.PageStrings{
			PrimaryText:      p.PrimaryText,
			SecondaryText:    p.SecondaryText,
			MoreHelpLinkText: p.MoreHelpLinkText,
		}
	}
	return msgrender.NewGate(
		msgrender.WithGateStrings(msgrender.GateStrings{
			OperatingSystem: page(cfg.Gate.OperatingSystem),
			Browser:         page(cfg.Gate.Browser),
			BrowserVersion:  page(cfg.Gate.BrowserVersion),
		}),
		msgrender.WithTroubleshootingURL(cfg.Gate.TroubleshootingURL),
		msgrender.WithGateAssetPath(assetPath),
	)
}

// supportMatrix returns the configured matrix. Each half falls back to the
// default matrix when unset.
func supportMatrix(cfg *config.Config) msgrender.SupportMatrix {
	m := msgrender.DefaultSupportMatrix()
	if len(cfg.Gate.Platforms) > 0 {
		m.Platforms = make([]string, len(cfg.Gate.Platforms))
		for i, p := range cfg.Gate.Platforms {
			m.Platforms[i] = strings.ToLower(p)
		}
	}
	if len(cfg.Gate.Browsers) > 0 {
		m.Browsers = make(map[string]int, len(cfg.Gate.Browsers))
		for name, version := range cfg.Gate.Browsers {
			m.Browsers[strings.ToLower(name)] = version
		}
	}
	return m
}

// mergeGalleryFlags overlays explicitly set gallery flags on cfg.
func mergeGalleryFlags(f *galleryFlags, cfg *config.Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&cfg.Gallery.Title, f.title)
	setString(&cfg.Gallery.Date, f.date)
	setString(&cfg.Gallery.HighlightStyle, f.style)
	setString(&cfg.Assets.BasePath, f.assetPath)
	setString(&cfg.Export.PageSize, f.pageSize)
	setString(&cfg.Export.FooterText, f.footerText)
	setString(&cfg.Export.Timeout, f.timeout)
	if f.noIndex {
		cfg.Gallery.HideIndex = true
	}
	if f.landscape {
		cfg.Export.Orientation = "landscape"
	}
	if f.margin > 0 {
		cfg.Export.Margin = f.margin
	}
	if f.pageNumber {
		cfg.Export.ShowPageNumber = true
	}
	if f.workers > 0 {
		cfg.Export.Workers = f.workers
	}
}

// exportOptions converts the export config to PDF options.
func exportOptions(cfg *config.Config) msgrender.ExportOptions {
	page := msgrender.DefaultPageSettings()
	if cfg.Export.PageSize != "" {
		page.Size = strings.ToLower(cfg.Export.PageSize)
	}
	if cfg.Export.Margin > 0 {
		page.Margin = cfg.Export.Margin
	}
	page.Landscape = strings.EqualFold(cfg.Export.Orientation, "landscape")
	return msgrender.ExportOptions{
		Page:           page,
		FooterText:     cfg.Export.FooterText,
		ShowPageNumber: cfg.Export.ShowPageNumber,
	}
}

// exportTimeout returns the configured timeout or the library default.
func exportTimeout(cfg *config.Config) (time.Duration, error) {
	d, err := cfg.Export.TimeoutDuration()
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return msgrender.DefaultExportTimeout, nil
	}
	return d, nil
}
