package msgrender

import "errors"

// Sentinel errors for library operations.
var (
	ErrFeatureDisabled      = errors.New("feature disabled")
	ErrEnvironmentSupported = errors.New("environment is fully supported, no unsupported page applies")
	ErrGateRender           = errors.New("gate page rendering failed")
	ErrGalleryRender        = errors.New("gallery rendering failed")
	ErrEmptyGallery         = errors.New("gallery has no stories")

	// Participant validation errors.
	ErrInvalidParticipantState = errors.New("invalid participant state")
	ErrInvalidParticipant      = errors.New("invalid participant")

	// PDF export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrEmptyDocument  = errors.New("document cannot be empty")
	ErrExporterClosed = errors.New("exporter pool is closed")

	// Page settings validation errors.
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
