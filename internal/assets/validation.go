package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is a plain file stem.
// Names must be non-empty and free of path separators, dots, whitespace
// and NUL bytes.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00 \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
