// Package store opens the destination backend selected by configuration.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"pe-collective-backend/internal/config"
	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/repository"
	"pe-collective-backend/internal/repository/memory"
	"pe-collective-backend/internal/repository/postgres"
	"pe-collective-backend/internal/repository/sheets"

	_ "github.com/lib/pq"
)

// Open returns the configured SheetRepository and a function releasing its resources
func Open(ctx context.Context, cfg *config.Config) (repository.SheetRepository, func(), error) {
	switch cfg.Store.Type {
	case config.StoreSheets:
		logger.Info("Using Google Sheets store", "spreadsheet_id", cfg.Sheets.SpreadsheetID, "sheet", cfg.Relay.SheetName)
		repo, err := sheets.NewSheetRepository(ctx, cfg.Sheets.SpreadsheetID,
			sheets.Options(cfg.Sheets.CredentialsFile, cfg.Sheets.Endpoint)...)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case config.StorePostgres:
		logger.Info("Using postgres store", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repo, err := openPostgres(ctx, db, cfg)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil

	case config.StoreMemory:
		logger.Warn("Using in-memory store; rows are lost on restart", "sheet", cfg.Relay.SheetName)
		return memory.NewSheetRepository(cfg.Relay.SheetName), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
	}
}

// openPostgres pings db, applies the schema and, when store.create_sheet is
// set, registers the relay sheet.
func openPostgres(ctx context.Context, db *sql.DB, cfg *config.Config) (repository.SheetRepository, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return nil, err
	}
	if cfg.Store.CreateSheet {
		if err := postgres.RegisterSheet(ctx, db, cfg.Relay.SheetName); err != nil {
			return nil, err
		}
		logger.Info("Registered sheet", "sheet", cfg.Relay.SheetName)
	}
	logger.Info("Database connection established")
	return postgres.NewSheetRepository(db), nil
}
