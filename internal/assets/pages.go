package assets

import (
	"errors"
	"fmt"
)

// GatePages holds the three unsupported-environment page templates and the
// stylesheet they share.
type GatePages struct {
	OperatingSystem string
	Browser         string
	BrowserVersion  string
	Style           string
}

// LoadGatePages loads every gate page template from loader.
// Returns ErrIncompletePageSet naming the first missing template.
func LoadGatePages(loader AssetLoader) (*GatePages, error) {
	pages := &GatePages{}
	targets := []struct {
		name string
		dst  *string
	}{
		{UnsupportedOSTemplate, &pages.OperatingSystem},
		{UnsupportedBrowserTemplate, &pages.Browser},
		{UnsupportedBrowserVersionTemplate, &pages.BrowserVersion},
	}
	for _, t := range targets {
		content, err := loader.LoadTemplate(t.name)
		if err != nil {
			if errors.Is(err, ErrTemplateNotFound) {
				return nil, fmt.Errorf("%w: %s.html", ErrIncompletePageSet, t.name)
			}
			return nil, err
		}
		*t.dst = content
	}

	style, err := loader.LoadStyle(GateStyle)
	if err != nil {
		return nil, err
	}
	pages.Style = style
	return pages, nil
}
