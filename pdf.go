package msgrender

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-msgrender/internal/fileutil"
	"github.com/alnah/go-msgrender/internal/process"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// DefaultExportTimeout bounds page loading when the context has no deadline.
const DefaultExportTimeout = 30 * time.Second

// pageDimensions maps page sizes to width and height in inches (portrait).
var pageDimensions = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size      string  `yaml:"size,omitempty"` // "letter", "a4", "legal"
	Landscape bool    `yaml:"landscape,omitempty"`
	Margin    float64 `yaml:"margin,omitempty"` // inches, applied to all sides
}

// DefaultPageSettings returns US Letter portrait with default margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{Size: PageSizeLetter, Margin: DefaultMargin}
}

// Validate checks the page size and margin.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := pageDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// ExportOptions controls one PDF export.
type ExportOptions struct {
	Page           *PageSettings // nil = defaults
	FooterText     string
	ShowPageNumber bool
}

// pdfRenderer renders a local HTML file to PDF. It allows testing the
// exporter without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// rodRenderer implements pdfRenderer with headless Chrome via go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
	logger   *zap.Logger
}

func newRodRenderer(timeout time.Duration, logger *zap.Logger) *rodRenderer {
	return &rodRenderer{timeout: timeout, logger: logger}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI runners have no usable sandbox.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	r.logger.Debug("browser connected", zap.Int("pid", l.PID()))
	return nil
}

// Close closes the browser and kills its process group, since Chrome
// helpers can outlive the main process.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.browser = nil
	r.launcher = nil
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// PDFExporter prints HTML documents such as the gallery to PDF.
type PDFExporter struct {
	renderer pdfRenderer
	logger   *zap.Logger
}

// ExporterOption configures a PDFExporter.
type ExporterOption func(*exporterConfig)

type exporterConfig struct {
	timeout  time.Duration
	logger   *zap.Logger
	renderer pdfRenderer
}

// WithExportTimeout bounds page loading when the context has no deadline.
func WithExportTimeout(d time.Duration) ExporterOption {
	return func(c *exporterConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithExportLogger sets the exporter logger.
func WithExportLogger(l *zap.Logger) ExporterOption {
	return func(c *exporterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewPDFExporter creates an exporter. The browser starts on first export.
func NewPDFExporter(opts ...ExporterOption) *PDFExporter {
	cfg := exporterConfig{timeout: DefaultExportTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.renderer == nil {
		cfg.renderer = newRodRenderer(cfg.timeout, cfg.logger)
	}
	return &PDFExporter{renderer: cfg.renderer, logger: cfg.logger}
}

// Export prints document to PDF.
func (e *PDFExporter) Export(ctx context.Context, document string, opts ExportOptions) ([]byte, error) {
	if strings.TrimSpace(document) == "" {
		return nil, ErrEmptyDocument
	}
	if err := opts.Page.Validate(); err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(document, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	start := time.Now()
	pdf, err := e.renderer.RenderFromFile(ctx, path, buildPrintOptions(opts))
	if err != nil {
		return nil, err
	}
	e.logger.Debug("document exported",
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pdf, nil
}

// Close releases the browser.
func (e *PDFExporter) Close() error {
	return e.renderer.Close()
}

// buildPrintOptions converts export options to Chrome print parameters.
func buildPrintOptions(opts ExportOptions) *proto.PagePrintToPDF {
	page := opts.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	dims := pageDimensions[strings.ToLower(page.Size)]
	margin := page.Margin

	params := &proto.PagePrintToPDF{
		Landscape:       page.Landscape,
		PaperWidth:      floatPtr(dims[0]),
		PaperHeight:     floatPtr(dims[1]),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}

	footer := buildFooterTemplate(opts.FooterText, opts.ShowPageNumber)
	if footer != "" {
		params.DisplayHeaderFooter = true
		params.HeaderTemplate = "<span></span>"
		params.FooterTemplate = footer
		params.MarginBottom = floatPtr(margin + 0.25)
	}
	return params
}

// buildFooterTemplate generates Chrome's native footer. Page numbers use the
// pageNumber and totalPages classes Chrome fills in.
func buildFooterTemplate(text string, pageNumber bool) string {
	var parts []string
	if text != "" {
		parts = append(parts, html.EscapeString(text))
	}
	if pageNumber {
		parts = append(parts, `<span class="pageNumber"></span>/<span class="totalPages"></span>`)
	}
	if len(parts) == 0 {
		return ""
	}
	return `<div style="font-size: 9px; color: #888; width: 100%; text-align: center;">` +
		strings.Join(parts, " - ") + `</div>`
}

func floatPtr(v float64) *float64 {
	return &v
}
