package expense

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrSheetNotFound     = fmt.Errorf("expense sheet %w", ErrNotFound)
	ErrEntryNotFound     = fmt.Errorf("expense entry %w", ErrNotFound)
	ErrForbidden         = errors.New("not allowed to access this expense sheet")
	ErrSheetLocked       = errors.New("expense sheet is validated and can no longer be modified")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}

	if _, ok := e.Fields[field]; ok {
		return
	}

	e.Fields[field] = msg
}

// Err returns nil when no field failed.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}

	return e
}
