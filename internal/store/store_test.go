package store

import (
	"context"
	"errors"
	"testing"

	"pe-collective-backend/internal/config"
	"pe-collective-backend/internal/repository"
	"pe-collective-backend/internal/repository/memory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Type: config.StoreMemory},
		Relay: config.RelayConfig{SheetName: "Members"},
	}

	repo, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &memory.SheetRepository{}, repo)
	exists, err := repo.SheetExists(context.Background(), "Members")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOpen_Unsupported(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Type: "excel"}})
	assert.ErrorContains(t, err, "unsupported store type")
}

func TestOpenPostgres(t *testing.T) {
	ctx := context.Background()

	t.Run("Create sheet registers the relay sheet", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS sheets").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO sheets \\(name\\) VALUES \\(\\$1\\) ON CONFLICT").
			WithArgs("Members").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM sheets WHERE name = \\$1\\)").
			WithArgs("Members").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		cfg := &config.Config{
			Store: config.StoreConfig{Type: config.StorePostgres, CreateSheet: true},
			Relay: config.RelayConfig{SheetName: "Members"},
		}
		repo, err := openPostgres(ctx, db, cfg)
		require.NoError(t, err)

		exists, err := repo.SheetExists(ctx, "Members")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Without create sheet only migrates", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS sheets").WillReturnResult(sqlmock.NewResult(0, 0))

		cfg := &config.Config{
			Store: config.StoreConfig{Type: config.StorePostgres},
			Relay: config.RelayConfig{SheetName: "Members"},
		}
		_, err = openPostgres(ctx, db, cfg)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Registration failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS sheets").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO sheets").WithArgs("Members").WillReturnError(assert.AnError)

		cfg := &config.Config{
			Store: config.StoreConfig{Type: config.StorePostgres, CreateSheet: true},
			Relay: config.RelayConfig{SheetName: "Members"},
		}
		_, err = openPostgres(ctx, db, cfg)
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, errors.Is(err, repository.ErrSheetNotFound))
	})
}
