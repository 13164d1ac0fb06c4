package assets

// Names of the built-in styles and templates.
const (
	GateStyle    = "gate"
	GalleryStyle = "gallery"

	UnsupportedOSTemplate             = "unsupported-os"
	UnsupportedBrowserTemplate        = "unsupported-browser"
	UnsupportedBrowserVersionTemplate = "unsupported-browser-version"
	GalleryTemplate                   = "gallery"
)

// defaultLoader serves the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in HTML template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
