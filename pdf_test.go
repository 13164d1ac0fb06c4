package msgrender

// Notes:
// - Tests PDFExporter with a mock renderer; no browser is launched
// - Tests buildFooterTemplate and buildPrintOptions margin handling
// - Tests PageSettings validation bounds

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-rod/rod/lib/proto"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockRenderer struct {
	mu         sync.Mutex
	result     []byte
	err        error
	calls      int
	calledPath string
	calledHTML string
	calledOpts *proto.PagePrintToPDF
	closed     int
	closeErr   error
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.calledPath = filePath
	m.calledOpts = opts
	if data, err := os.ReadFile(filePath); err == nil {
		m.calledHTML = string(data)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.result, m.err
}

func (m *mockRenderer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return m.closeErr
}

func withRenderer(r pdfRenderer) ExporterOption {
	return func(c *exporterConfig) {
		c.renderer = r
	}
}

// ---------------------------------------------------------------------------
// TestPDFExporter_Export
// ---------------------------------------------------------------------------

func TestPDFExporter_Export(t *testing.T) {
	t.Parallel()

	mock := &mockRenderer{result: []byte("%PDF-1.7")}
	e := NewPDFExporter(withRenderer(mock))

	pdf, err := e.Export(context.Background(), "<html><body>gallery</body></html>", ExportOptions{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if string(pdf) != "%PDF-1.7" {
		t.Errorf("Export() = %q, want mock output", pdf)
	}
	if mock.calledHTML != "<html><body>gallery</body></html>" {
		t.Errorf("renderer read %q, want the exported document", mock.calledHTML)
	}
	if !strings.HasSuffix(mock.calledPath, ".html") {
		t.Errorf("renderer path = %q, want .html temp file", mock.calledPath)
	}
	if _, err := os.Stat(mock.calledPath); !os.IsNotExist(err) {
		t.Errorf("temp file %q not removed after export", mock.calledPath)
	}
	if got := *mock.calledOpts.PaperWidth; got != 8.5 {
		t.Errorf("PaperWidth = %v, want letter default 8.5", got)
	}
}

func TestPDFExporter_ExportErrors(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("renderer failed")

	tests := []struct {
		name      string
		document  string
		opts      ExportOptions
		renderErr error
		wantErr   error
		wantCalls int
	}{
		{
			name:     "empty document",
			document: "",
			wantErr:  ErrEmptyDocument,
		},
		{
			name:     "blank document",
			document: " \n\t",
			wantErr:  ErrEmptyDocument,
		},
		{
			name:     "invalid page size",
			document: "<p>x</p>",
			opts:     ExportOptions{Page: &PageSettings{Size: "tabloid", Margin: 1}},
			wantErr:  ErrInvalidPageSize,
		},
		{
			name:     "invalid margin",
			document: "<p>x</p>",
			opts:     ExportOptions{Page: &PageSettings{Size: PageSizeA4, Margin: 5}},
			wantErr:  ErrInvalidMargin,
		},
		{
			name:      "renderer error",
			document:  "<p>x</p>",
			renderErr: renderErr,
			wantErr:   renderErr,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := &mockRenderer{err: tt.renderErr}
			e := NewPDFExporter(withRenderer(mock))
			_, err := e.Export(context.Background(), tt.document, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Export() error = %v, want %v", err, tt.wantErr)
			}
			if mock.calls != tt.wantCalls {
				t.Errorf("renderer calls = %d, want %d", mock.calls, tt.wantCalls)
			}
		})
	}
}

func TestPDFExporter_Close(t *testing.T) {
	t.Parallel()

	mock := &mockRenderer{closeErr: errors.New("close failed")}
	e := NewPDFExporter(withRenderer(mock))
	if err := e.Close(); err == nil {
		t.Error("Close() error = nil, want renderer error")
	}
	if mock.closed != 1 {
		t.Errorf("renderer closed %d times, want 1", mock.closed)
	}
}

// ---------------------------------------------------------------------------
// TestPageSettings_Validate
// ---------------------------------------------------------------------------

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{name: "nil uses defaults", page: nil},
		{name: "defaults", page: DefaultPageSettings()},
		{name: "a4 upper case", page: &PageSettings{Size: "A4", Margin: 1}},
		{name: "minimum margin", page: &PageSettings{Size: PageSizeLegal, Margin: MinMargin}},
		{name: "maximum margin", page: &PageSettings{Size: PageSizeLegal, Margin: MaxMargin}},
		{name: "unknown size", page: &PageSettings{Size: "a3", Margin: 1}, wantErr: ErrInvalidPageSize},
		{name: "empty size", page: &PageSettings{Margin: 1}, wantErr: ErrInvalidPageSize},
		{name: "margin too small", page: &PageSettings{Size: PageSizeA4, Margin: 0.1}, wantErr: ErrInvalidMargin},
		{name: "margin too large", page: &PageSettings{Size: PageSizeA4, Margin: 3.5}, wantErr: ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.page.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildFooterTemplate
// ---------------------------------------------------------------------------

func TestBuildFooterTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		pageNumber bool
		want       []string
		wantEmpty  bool
	}{
		{name: "nothing", wantEmpty: true},
		{name: "text only", text: "Gallery", want: []string{"Gallery"}},
		{name: "page number only", pageNumber: true, want: []string{`class="pageNumber"`, `class="totalPages"`}},
		{name: "both", text: "Gallery", pageNumber: true, want: []string{"Gallery - <span"}},
		{name: "text escaped", text: "<b>x</b> & y", want: []string{"&lt;b&gt;x&lt;/b&gt; &amp; y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildFooterTemplate(tt.text, tt.pageNumber)
			if tt.wantEmpty {
				if got != "" {
					t.Errorf("buildFooterTemplate() = %q, want empty", got)
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("buildFooterTemplate() = %q, missing %q", got, want)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildPrintOptions
// ---------------------------------------------------------------------------

func TestBuildPrintOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         ExportOptions
		wantWidth    float64
		wantHeight   float64
		wantBottom   float64
		wantFooter   bool
		wantLandscap bool
	}{
		{
			name:       "defaults",
			opts:       ExportOptions{},
			wantWidth:  8.5,
			wantHeight: 11,
			wantBottom: DefaultMargin,
		},
		{
			name:       "a4 with footer",
			opts:       ExportOptions{Page: &PageSettings{Size: PageSizeA4, Margin: 1}, FooterText: "x"},
			wantWidth:  8.27,
			wantHeight: 11.69,
			wantBottom: 1.25,
			wantFooter: true,
		},
		{
			name:         "legal landscape with page numbers",
			opts:         ExportOptions{Page: &PageSettings{Size: PageSizeLegal, Margin: 0.5, Landscape: true}, ShowPageNumber: true},
			wantWidth:    8.5,
			wantHeight:   14,
			wantBottom:   0.75,
			wantFooter:   true,
			wantLandscap: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPrintOptions(tt.opts)
			if *got.PaperWidth != tt.wantWidth || *got.PaperHeight != tt.wantHeight {
				t.Errorf("paper = %vx%v, want %vx%v", *got.PaperWidth, *got.PaperHeight, tt.wantWidth, tt.wantHeight)
			}
			if *got.MarginBottom != tt.wantBottom {
				t.Errorf("MarginBottom = %v, want %v", *got.MarginBottom, tt.wantBottom)
			}
			if *got.MarginTop != *got.MarginLeft || *got.MarginLeft != *got.MarginRight {
				t.Errorf("side margins differ: top=%v left=%v right=%v", *got.MarginTop, *got.MarginLeft, *got.MarginRight)
			}
			if got.DisplayHeaderFooter != tt.wantFooter {
				t.Errorf("DisplayHeaderFooter = %v, want %v", got.DisplayHeaderFooter, tt.wantFooter)
			}
			if got.Landscape != tt.wantLandscap {
				t.Errorf("Landscape = %v, want %v", got.Landscape, tt.wantLandscap)
			}
			if !got.PrintBackground {
				t.Error("PrintBackground = false, want true")
			}
		})
	}
}
