// Package memory is an in-process SheetRepository for local development and tests.
package memory

import (
	"context"
	"sync"

	"pe-collective-backend/internal/repository"
)

type SheetRepository struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

var _ repository.SheetRepository = (*SheetRepository)(nil)

// NewSheetRepository creates a store holding the given (empty) sheets
func NewSheetRepository(sheets ...string) *SheetRepository {
	r := &SheetRepository{sheets: make(map[string][][]string)}
	for _, name := range sheets {
		r.sheets[name] = nil
	}
	return r
}

func (r *SheetRepository) SheetExists(ctx context.Context, sheet string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sheets[sheet]
	return ok, nil
}

func (r *SheetRepository) AppendRow(ctx context.Context, sheet string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rows, ok := r.sheets[sheet]
	if !ok {
		return repository.SheetNotFound(sheet)
	}
	r.sheets[sheet] = append(rows, append([]string(nil), row...))
	return nil
}

// Rows returns a copy of every row appended to sheet
func (r *SheetRepository) Rows(sheet string) [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, 0, len(r.sheets[sheet]))
	for _, row := range r.sheets[sheet] {
		out = append(out, append([]string(nil), row...))
	}
	return out
}
