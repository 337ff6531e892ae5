// Package sheets stores registration rows in a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/repository"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const serviceName = "google-sheets"

type SheetRepository struct {
	svc           *sheets.Service
	spreadsheetID string
}

var _ repository.SheetRepository = (*SheetRepository)(nil)

// Options builds client options from a credentials file and optional endpoint
func Options(credentialsFile, endpoint string) []option.ClientOption {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

// NewSheetRepository dials the Sheets API for one spreadsheet
func NewSheetRepository(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetRepository, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &SheetRepository{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (r *SheetRepository) SheetExists(ctx context.Context, sheet string) (bool, error) {
	logger.ExternalServiceCall(serviceName, "spreadsheets.get", "spreadsheet_id", r.spreadsheetID)

	resp, err := r.svc.Spreadsheets.Get(r.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	logger.ExternalServiceResult(serviceName, "spreadsheets.get", err, "spreadsheet_id", r.spreadsheetID)
	if err != nil {
		return false, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	for _, s := range resp.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			return true, nil
		}
	}
	return false, nil
}

func (r *SheetRepository) AppendRow(ctx context.Context, sheet string, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}

	logger.ExternalServiceCall(serviceName, "values.append", "sheet", sheet, "cells", len(cells))

	// RAW keeps "02/14/2026" and "+1..." exactly as submitted.
	_, err := r.svc.Spreadsheets.Values.Append(r.spreadsheetID, a1Range(sheet), &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{cells},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	logger.ExternalServiceResult(serviceName, "values.append", err, "sheet", sheet)
	if err != nil {
		if isUnknownRange(err) {
			return repository.SheetNotFound(sheet)
		}
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// a1Range anchors an append at the first cell of a quoted sheet name
func a1Range(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!A1"
}

// isUnknownRange detects the 400 the API returns for a deleted or renamed tab
func isUnknownRange(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}
