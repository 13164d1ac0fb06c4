package assets

// AssetLoader loads the stylesheets and page templates used by the gate and
// the gallery. Names are file stems without extension.
type AssetLoader interface {
	// LoadStyle returns a stylesheet or ErrStyleNotFound.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns an html/template source or ErrTemplateNotFound.
	LoadTemplate(name string) (string, error)
}
