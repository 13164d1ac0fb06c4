package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"

	msgrender "github.com/alnah/go-msgrender"
	"github.com/alnah/go-msgrender/internal/config"
	"github.com/alnah/go-msgrender/internal/fileutil"
	"github.com/alnah/go-msgrender/internal/hints"
)

// stdinGalleryName names outputs of a gallery read from stdin.
const stdinGalleryName = "gallery"

// galleryOutput is one rendered gallery and where it goes.
type galleryOutput struct {
	htmlPath string // "" = stdout
	pdfPath  string
	document string
}

// runGallery renders story fixtures to HTML galleries and optionally exports
// them to PDF with a pool of headless browsers.
func runGallery(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseGalleryFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no stories file given%s", ErrUsage, hints.ForFixture("stories"))
	}
	if len(inputs) > 1 && slices.Contains(inputs, stdinArg) {
		return fmt.Errorf("%w: stdin (-) cannot be combined with other inputs", ErrUsage)
	}
	if flags.pdf && flags.output == "" && slices.Contains(inputs, stdinArg) {
		return fmt.Errorf("%w: --pdf with stdin input requires --output", ErrUsage)
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeGalleryFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(flags.common.verbose, env.Stderr)
	defer func() { _ = logger.Sync() }()

	gallery, err := newGallery(cfg, logger, env)
	if err != nil {
		return err
	}

	start := time.Now()
	outputs := make([]galleryOutput, 0, len(inputs))
	for _, input := range inputs {
		var stories []msgrender.Story
		if err := readFixture(input, "stories", env, &stories); err != nil {
			return err
		}
		doc, err := gallery.Render(ctx, stories)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		out := galleryOutput{document: doc}
		out.htmlPath, out.pdfPath = galleryPaths(input, flags.output)
		if err := writeOutput(out.htmlPath, []byte(doc), env); err != nil {
			return err
		}
		if out.htmlPath != "" {
			status(env, flags.common.quiet, "Wrote %s", out.htmlPath)
		}
		outputs = append(outputs, out)
	}
	logger.Debug("galleries rendered", zap.Int("count", len(outputs)), zap.Duration("elapsed", time.Since(start)))

	if !flags.pdf {
		return nil
	}
	return exportGalleries(ctx, outputs, cfg, logger, env, flags.common.quiet)
}

// newGallery builds the gallery from the config.
func newGallery(cfg *config.Config, logger *zap.Logger, env *Environment) (*msgrender.Gallery, error) {
	gate, err := newGate(cfg, "")
	if err != nil {
		return nil, err
	}
	opts := []msgrender.GalleryOption{
		msgrender.WithGalleryGate(gate),
		msgrender.WithGalleryAssetPath(cfg.Assets.BasePath),
		msgrender.WithGalleryClock(env.now),
	}
	if cfg.Gallery.Title != "" {
		opts = append(opts, msgrender.WithGalleryTitle(cfg.Gallery.Title))
	}
	if cfg.Gallery.Date != "" {
		opts = append(opts, msgrender.WithGalleryDate(cfg.Gallery.Date))
	}
	switch {
	case cfg.Gallery.HideIndex:
		opts = append(opts, msgrender.WithIndexTitle(""))
	case cfg.Gallery.IndexTitle != "":
		opts = append(opts, msgrender.WithIndexTitle(cfg.Gallery.IndexTitle))
	}
	if cfg.Gallery.HighlightStyle != "" {
		opts = append(opts, msgrender.WithHighlightStyle(cfg.Gallery.HighlightStyle))
	}
	return msgrender.NewGallery(newRenderer(cfg, logger), opts...)
}

// exportGalleries prints every rendered gallery to PDF.
func exportGalleries(ctx context.Context, outputs []galleryOutput, cfg *config.Config, logger *zap.Logger, env *Environment, quiet bool) error {
	timeout, err := exportTimeout(cfg)
	if err != nil {
		return err
	}
	workers := min(msgrender.ResolvePoolSize(cfg.Export.Workers), len(outputs))
	pool := env.NewExportPool(workers,
		msgrender.WithExportTimeout(timeout),
		msgrender.WithExportLogger(logger),
	)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing exporter pool", zap.Error(err))
		}
	}()
	logger.Debug("exporting", zap.Int("documents", len(outputs)), zap.Int("workers", pool.Size()))

	opts := exportOptions(cfg)
	jobs := make([]msgrender.ExportJob, len(outputs))
	for i, out := range outputs {
		jobs[i] = msgrender.ExportJob{Name: out.pdfPath, Document: out.document, Options: opts}
	}

	var errs []error
	for _, res := range pool.ExportAll(ctx, jobs) {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w%s", res.Name, res.Err, exportHint(res.Err)))
			continue
		}
		if err := writeOutput(res.Name, res.PDF, env); err != nil {
			errs = append(errs, err)
			continue
		}
		status(env, quiet, "Wrote %s", res.Name)
	}
	return errors.Join(errs...)
}

// exportHint returns the hint matching an export failure.
func exportHint(err error) string {
	switch {
	case errors.Is(err, msgrender.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, msgrender.ErrPageLoad):
		return hints.ForTimeout()
	}
	return ""
}

// galleryPaths returns the HTML and PDF output paths for input. Outputs go
// next to the input unless outputDir is set. A stdin gallery without an
// output directory is written to stdout.
func galleryPaths(input, outputDir string) (htmlPath, pdfPath string) {
	if input == stdinArg {
		if outputDir == "" {
			return "", ""
		}
		base := filepath.Join(outputDir, stdinGalleryName)
		return base + ".html", base + ".pdf"
	}
	base := input
	if outputDir != "" {
		base = filepath.Join(outputDir, filepath.Base(input))
	}
	return fileutil.ReplaceExt(base, ".html"), fileutil.ReplaceExt(base, ".pdf")
}
