package main

import (
	"errors"
	"os"

	msgrender "github.com/alnah/go-msgrender"
	"github.com/alnah/go-msgrender/internal/assets"
	"github.com/alnah/go-msgrender/internal/config"
	"github.com/alnah/go-msgrender/internal/yamlutil"
)

// Exit codes for the msgrender CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, fixture or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the exit code for err.
// It uses errors.Is on wrapped errors, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, msgrender.ErrBrowserConnect) ||
		errors.Is(err, msgrender.ErrPageCreate) ||
		errors.Is(err, msgrender.ErrPageLoad) ||
		errors.Is(err, msgrender.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, yamlutil.ErrNilData) ||
		errors.Is(err, yamlutil.ErrInputTooLarge) ||
		errors.Is(err, ErrFixture) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, msgrender.ErrFeatureDisabled) ||
		errors.Is(err, msgrender.ErrEmptyGallery) ||
		errors.Is(err, msgrender.ErrEmptyDocument) ||
		errors.Is(err, msgrender.ErrInvalidParticipant) ||
		errors.Is(err, msgrender.ErrInvalidParticipantState) ||
		errors.Is(err, msgrender.ErrInvalidPageSize) ||
		errors.Is(err, msgrender.ErrInvalidMargin) ||
		errors.Is(err, msgrender.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
