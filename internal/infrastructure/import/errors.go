package flatimport

import (
	"errors"
	"fmt"
)

// Import error codes
const (
	ErrCodeImportInvalidFile  = "ERR_IMPORT_INVALID_FILE"
	ErrCodeImportBadEntry     = "ERR_IMPORT_BAD_ENTRY"
	ErrCodeImportBadRecipe    = "ERR_IMPORT_BAD_RECIPE"
	ErrCodeImportBadNumber    = "ERR_IMPORT_BAD_NUMBER"
	ErrCodeImportRegistration = "ERR_IMPORT_REGISTRATION"
)

// ErrUnknownEntryKind is returned when a line starts with an unrecognized tag.
var ErrUnknownEntryKind = errors.New("unknown entry kind")

// BadEntryError reports a malformed line of an import file. The import stops
// at the first malformed entry; registrations made before it stand.
type BadEntryError struct {
	Line   int
	Entry  string
	Code   string
	Reason string
}

func (e *BadEntryError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Entry)
}

func badEntry(line int, entry, code, reason string) *BadEntryError {
	return &BadEntryError{Line: line, Entry: entry, Code: code, Reason: reason}
}
