package msgrender

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/alnah/go-msgrender/internal/assets"
	"github.com/alnah/go-msgrender/internal/pipeline"
)

// EnvironmentInfo describes whether the user's environment can run calls.
// The descriptive fields are informational and do not affect page selection.
type EnvironmentInfo struct {
	IsSupportedPlatform       bool   `yaml:"isSupportedPlatform"`
	IsSupportedBrowser        bool   `yaml:"isSupportedBrowser"`
	IsSupportedBrowserVersion bool   `yaml:"isSupportedBrowserVersion"`
	Platform                  string `yaml:"platform,omitempty"`
	Browser                   string `yaml:"browser,omitempty"`
	BrowserVersion            string `yaml:"browserVersion,omitempty"`
}

// UnsupportedPage identifies one of the unsupported-environment pages.
type UnsupportedPage int

// Unsupported-environment pages, in precedence order.
const (
	PageUnsupportedOperatingSystem UnsupportedPage = iota + 1
	PageUnsupportedBrowser
	PageUnsupportedBrowserVersion
)

// String returns the page's data-ui-id.
func (p UnsupportedPage) String() string {
	switch p {
	case PageUnsupportedOperatingSystem:
		return "unsupported-operating-system"
	case PageUnsupportedBrowser:
		return "unsupported-browser"
	case PageUnsupportedBrowserVersion:
		return "unsupported-browser-version"
	}
	return fmt.Sprintf("UnsupportedPage(%d)", int(p))
}

// SelectUnsupportedPage picks the page to show for env. Platform support is
// checked first, then the browser, then its version. A nil env is treated
// as an unsupported platform. A fully supported env has no page and returns
// ErrEnvironmentSupported; callers are expected to check support first.
func SelectUnsupportedPage(env *EnvironmentInfo) (UnsupportedPage, error) {
	switch {
	case env == nil || !env.IsSupportedPlatform:
		return PageUnsupportedOperatingSystem, nil
	case !env.IsSupportedBrowser:
		return PageUnsupportedBrowser, nil
	case !env.IsSupportedBrowserVersion:
		return PageUnsupportedBrowserVersion, nil
	}
	return 0, ErrEnvironmentSupported
}

// PageStrings is the text of one unsupported-environment page.
type PageStrings struct {
	PrimaryText      string `yaml:"primaryText,omitempty"`
	SecondaryText    string `yaml:"secondaryText,omitempty"`
	MoreHelpLinkText string `yaml:"moreHelpLinkText,omitempty"`
}

// GateStrings holds the text of every unsupported-environment page.
type GateStrings struct {
	OperatingSystem PageStrings `yaml:"operatingSystem,omitempty"`
	Browser         PageStrings `yaml:"browser,omitempty"`
	BrowserVersion  PageStrings `yaml:"browserVersion,omitempty"`
}

// DefaultGateStrings returns the English page text.
func DefaultGateStrings() GateStrings {
	return GateStrings{
		OperatingSystem: PageStrings{
			PrimaryText:      "Calling is not supported on this operating system",
			SecondaryText:    "Please join this call from a supported device.",
			MoreHelpLinkText: "Learn more about supported operating systems",
		},
		Browser: PageStrings{
			PrimaryText:      "Browser not supported",
			SecondaryText:    "Please join this call using a compatible browser.",
			MoreHelpLinkText: "Compatibility help",
		},
		BrowserVersion: PageStrings{
			PrimaryText:      "Browser update needed",
			SecondaryText:    "Please update your browser to join this call.",
			MoreHelpLinkText: "Compatibility help",
		},
	}
}

// withDefaults fills empty fields from DefaultGateStrings.
func (g GateStrings) withDefaults() GateStrings {
	d := DefaultGateStrings()
	fill := func(p *PageStrings, def PageStrings) {
		if p.PrimaryText == "" {
			p.PrimaryText = def.PrimaryText
		}
		if p.SecondaryText == "" {
			p.SecondaryText = def.SecondaryText
		}
		if p.MoreHelpLinkText == "" {
			p.MoreHelpLinkText = def.MoreHelpLinkText
		}
	}
	fill(&g.OperatingSystem, d.OperatingSystem)
	fill(&g.Browser, d.Browser)
	fill(&g.BrowserVersion, d.BrowserVersion)
	return g
}

// gateConfig holds NewGate options.
type gateConfig struct {
	strings            GateStrings
	troubleshootingURL string
	assetPath          string
}

// GateOption configures a Gate.
type GateOption func(*gateConfig)

// WithGateStrings sets the page text. Empty fields keep their defaults.
func WithGateStrings(s GateStrings) GateOption {
	return func(c *gateConfig) {
		c.strings = s.withDefaults()
	}
}

// WithTroubleshootingURL adds a help link to every page.
func WithTroubleshootingURL(url string) GateOption {
	return func(c *gateConfig) {
		c.troubleshootingURL = url
	}
}

// WithGateAssetPath loads page templates and the gate style from a custom
// directory first, falling back to the embedded assets.
func WithGateAssetPath(path string) GateOption {
	return func(c *gateConfig) {
		c.assetPath = path
	}
}

// Gate renders unsupported-environment pages.
type Gate struct {
	pages              map[UnsupportedPage]*template.Template
	strings            GateStrings
	troubleshootingURL string
	style              string
	injector           pipeline.StyleInjector
}

// gatePageData is the template data of a gate page.
type gatePageData struct {
	PageStrings
	TroubleshootingURL string
}

// NewGate loads and parses the gate page templates.
func NewGate(opts ...GateOption) (*Gate, error) {
	cfg := gateConfig{strings: DefaultGateStrings()}
	for _, opt := range opts {
		opt(&cfg)
	}

	resolver, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	sources, err := assets.LoadGatePages(resolver)
	if err != nil {
		return nil, fmt.Errorf("loading gate pages: %w", err)
	}

	g := &Gate{
		pages:              make(map[UnsupportedPage]*template.Template, 3),
		strings:            cfg.strings,
		troubleshootingURL: cfg.troubleshootingURL,
		style:              sources.Style,
		injector:           pipeline.StyleInjection{},
	}
	for page, src := range map[UnsupportedPage]string{
		PageUnsupportedOperatingSystem: sources.OperatingSystem,
		PageUnsupportedBrowser:         sources.Browser,
		PageUnsupportedBrowserVersion:  sources.BrowserVersion,
	} {
		tmpl, err := template.New(page.String()).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrGateRender, page, err)
		}
		g.pages[page] = tmpl
	}
	return g, nil
}

// Style returns the gate stylesheet.
func (g *Gate) Style() string {
	return g.style
}

// Render renders the page selected for env as an HTML fragment.
// Returns ErrEnvironmentSupported when no page applies.
func (g *Gate) Render(env *EnvironmentInfo) (string, error) {
	page, err := SelectUnsupportedPage(env)
	if err != nil {
		return "", err
	}

	data := gatePageData{TroubleshootingURL: g.troubleshootingURL}
	switch page {
	case PageUnsupportedOperatingSystem:
		data.PageStrings = g.strings.OperatingSystem
	case PageUnsupportedBrowser:
		data.PageStrings = g.strings.Browser
	case PageUnsupportedBrowserVersion:
		data.PageStrings = g.strings.BrowserVersion
	}

	var buf bytes.Buffer
	if err := g.pages[page].Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateRender, err)
	}
	return buf.String(), nil
}

// Document renders the page for env as a standalone HTML document with the
// gate stylesheet inlined.
func (g *Gate) Document(ctx context.Context, env *EnvironmentInfo) (string, error) {
	fragment, err := g.Render(env)
	if err != nil {
		return "", err
	}
	doc := "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>Unsupported environment</title>\n</head>\n<body>\n" +
		fragment + "\n</body>\n</html>\n"
	doc = g.injector.InjectCSS(ctx, doc, g.style)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return doc, nil
}
