package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags are shared by every rendering command.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags configures the render command.
type renderFlags struct {
	common      commonFlags
	output      string
	format      string
	blocked     bool
	attachments string
}

// gateFlags configures the gate command.
type gateFlags struct {
	common    commonFlags
	output    string
	userAgent string
	document  bool
}

// composeFlags configures the compose command.
type composeFlags struct {
	common     commonFlags
	output     string
	senderID   string
	senderName string
	images     []string
}

// galleryFlags configures the gallery command.
type galleryFlags struct {
	common     commonFlags
	output     string
	title      string
	date       string
	noIndex    bool
	style      string
	assetPath  string
	pdf        bool
	pageSize   string
	landscape  bool
	margin     float64
	footerText string
	pageNumber bool
	timeout    string
	workers    int
}

// Render output formats.
const (
	formatHTML = "html"
	formatAria = "aria"
	formatLive = "live"
)

var renderFormats = []string{formatHTML, formatAria, formatLive}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// newFlagSet creates a flag set that reports errors instead of exiting.
// usage is printed to stderr on -h and on parse errors.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseFlagSet parses args and wraps parse errors as usage errors.
// flag.ErrHelp is returned unchanged.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fs.StringVarP(&f.format, "format", "f", formatHTML, "output format: html, aria, live")
	fs.BoolVar(&f.blocked, "blocked", false, "input lists blocked messages")
	fs.StringVarP(&f.attachments, "attachments", "a", "", "YAML map of inline image id to URL")
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseGateFlags(args []string, stderr io.Writer) (*gateFlags, []string, error) {
	f := &gateFlags{}
	fs := newFlagSet("gate", stderr, printGateUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fs.StringVarP(&f.userAgent, "user-agent", "u", "", "detect the environment from a user agent")
	fs.BoolVarP(&f.document, "document", "d", false, "write a standalone HTML document")
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseComposeFlags(args []string, stderr io.Writer) (*composeFlags, []string, error) {
	f := &composeFlags{}
	fs := newFlagSet("compose", stderr, printComposeUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fs.StringVar(&f.senderID, "sender-id", "", "sender user id")
	fs.StringVar(&f.senderName, "sender-name", "", "sender display name")
	fs.StringArrayVarP(&f.images, "image", "i", nil, "inline image as NAME=URL (repeatable)")
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseGalleryFlags(args []string, stderr io.Writer) (*galleryFlags, []string, error) {
	f := &galleryFlags{}
	fs := newFlagSet("gallery", stderr, printGalleryUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to each input)")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.date, "date", "", "date: \"auto\", \"auto:FORMAT\" or literal")
	fs.BoolVar(&f.noIndex, "no-index", false, "omit the story index")
	fs.StringVar(&f.style, "style", "", "chroma style for story sources")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom templates and styles")
	fs.BoolVar(&f.pdf, "pdf", false, "also export each gallery to PDF")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "PDF page size: letter, a4, legal")
	fs.BoolVar(&f.landscape, "landscape", false, "PDF landscape orientation")
	fs.Float64Var(&f.margin, "margin", 0, "PDF margin in inches (0.25-3.0)")
	fs.StringVar(&f.footerText, "footer-text", "", "PDF footer text")
	fs.BoolVar(&f.pageNumber, "page-number", false, "show page numbers in the PDF footer")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout, e.g. 45s")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
