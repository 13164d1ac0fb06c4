// Package assets provides the CSS styles and HTML templates used by the
// browser support gate pages and the story gallery.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in pages)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver tries the custom FilesystemLoader first and falls back to the
// EmbeddedLoader when an asset is not found, so a single page or stylesheet
// can be overridden while the rest keep their built-in version.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── gate.css
//	│   └── gallery.css
//	└── templates/
//	    ├── unsupported-os.html
//	    ├── unsupported-browser.html
//	    ├── unsupported-browser-version.html
//	    └── gallery.html
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
