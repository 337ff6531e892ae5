package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrSheetNotFound is returned when the configured destination sheet does not exist
var ErrSheetNotFound = errors.New("sheet not found")

// SheetNotFound wraps ErrSheetNotFound with the missing sheet's name
func SheetNotFound(name string) error {
	return fmt.Errorf("sheet %q not found: %w", name, ErrSheetNotFound)
}

// SheetRepository is a tabular store made of named sheets that only grow by
// appending rows.
type SheetRepository interface {
	// SheetExists reports whether a sheet tab with the given name exists
	SheetExists(ctx context.Context, sheet string) (bool, error)

	// AppendRow adds row as the new last row of sheet. Implementations
	// append atomically or not at all.
	AppendRow(ctx context.Context, sheet string, row []string) error
}
