package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/repository"

	"github.com/lib/pq"
)

// foreignKeyViolation is the SQLSTATE raised when sheet_rows references an unknown sheet
const foreignKeyViolation = "23503"

// Schema creates the tables backing the postgres sheet store. Sheets are
// registered explicitly; appending to an unregistered name fails.
const Schema = `
CREATE TABLE IF NOT EXISTS sheets (
	name       TEXT PRIMARY KEY,
	created_on TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sheet_rows (
	id          BIGSERIAL PRIMARY KEY,
	sheet_name  TEXT NOT NULL REFERENCES sheets(name),
	cells       TEXT[] NOT NULL,
	appended_on TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type sheetRepository struct {
	db *sql.DB
}

func NewSheetRepository(db *sql.DB) repository.SheetRepository {
	return &sheetRepository{db: db}
}

func (r *sheetRepository) SheetExists(ctx context.Context, sheet string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM sheets WHERE name = $1)`
	logger.DatabaseCall("SELECT", "sheets", "sheet", sheet)

	var exists bool
	err := r.db.QueryRowContext(ctx, query, sheet).Scan(&exists)
	logger.DatabaseResult("SELECT", 0, err, "sheet", sheet, "exists", exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up sheet: %w", err)
	}
	return exists, nil
}

func (r *sheetRepository) AppendRow(ctx context.Context, sheet string, row []string) error {
	logger.EnterMethod("sheetRepository.AppendRow", "sheet", sheet, "cells", len(row))

	query := `INSERT INTO sheet_rows (sheet_name, cells) VALUES ($1, $2)`
	logger.DatabaseCall("INSERT", "sheet_rows", "sheet", sheet)

	res, err := r.db.ExecContext(ctx, query, sheet, pq.Array(row))
	var affected int64
	if err == nil {
		affected, _ = res.RowsAffected()
	}
	logger.DatabaseResult("INSERT", affected, err, "sheet", sheet)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			err = repository.SheetNotFound(sheet)
		} else {
			err = fmt.Errorf("failed to append row: %w", err)
		}
		logger.ExitMethodWithError("sheetRepository.AppendRow", err, "sheet", sheet)
		return err
	}

	logger.ExitMethod("sheetRepository.AppendRow", "sheet", sheet)
	return nil
}

// RegisterSheet creates the named sheet if it does not exist yet
func RegisterSheet(ctx context.Context, db *sql.DB, sheet string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO sheets (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, sheet)
	if err != nil {
		return fmt.Errorf("failed to register sheet %q: %w", sheet, err)
	}
	return nil
}

// Migrate applies Schema
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
