package assets

import (
	"errors"
	"testing"
)

// stubLoader serves assets from maps.
type stubLoader struct {
	styles    map[string]string
	templates map[string]string
	err       error
}

func (s *stubLoader) LoadStyle(name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if c, ok := s.styles[name]; ok {
		return c, nil
	}
	return "", ErrStyleNotFound
}

func (s *stubLoader) LoadTemplate(name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if c, ok := s.templates[name]; ok {
		return c, nil
	}
	return "", ErrTemplateNotFound
}

func TestLoadGatePages_Embedded(t *testing.T) {
	t.Parallel()

	pages, err := LoadGatePages(NewEmbeddedLoader())
	if err != nil {
		t.Fatalf("LoadGatePages() error = %v", err)
	}
	if pages.OperatingSystem == "" || pages.Browser == "" || pages.BrowserVersion == "" {
		t.Errorf("LoadGatePages() returned empty page: %+v", pages)
	}
	if pages.Style == "" {
		t.Error("LoadGatePages() returned empty style")
	}
}

func TestLoadGatePages_Errors(t *testing.T) {
	t.Parallel()

	complete := map[string]string{
		UnsupportedOSTemplate:             "os",
		UnsupportedBrowserTemplate:        "browser",
		UnsupportedBrowserVersionTemplate: "version",
	}
	partial := map[string]string{
		UnsupportedOSTemplate: "os",
	}
	readErr := errors.New("disk on fire")

	tests := []struct {
		name    string
		loader  *stubLoader
		wantErr error
	}{
		{
			name:    "missing template",
			loader:  &stubLoader{templates: partial, styles: map[string]string{GateStyle: "x"}},
			wantErr: ErrIncompletePageSet,
		},
		{
			name:    "missing style",
			loader:  &stubLoader{templates: complete},
			wantErr: ErrStyleNotFound,
		},
		{
			name:    "read error is returned as is",
			loader:  &stubLoader{err: readErr},
			wantErr: readErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadGatePages(tt.loader)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadGatePages() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
