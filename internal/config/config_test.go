package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheetsYAML = `
server:
  host: 0.0.0.0
  port: 8080
store:
  type: sheets
sheets:
  spreadsheet_id: abc123
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(sheetsYAML))
	require.NoError(t, err)

	assert.Equal(t, "Members", cfg.Relay.SheetName)
	assert.Equal(t, "PE Collective Registration", cfg.Relay.ServiceName)
	assert.Equal(t, SinkLog, cfg.Analytics.Sink)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "0 */15 * * * *", cfg.Scheduler.ProbeDestination)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	assert.False(t, cfg.NotifyEnabled())
	assert.Equal(t, time.Local, cfg.Location())
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("SHEET_NAME", "Registrations")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("NOTIFY_TO", "team@pecollective.com")
	t.Setenv("STORE_CREATE_SHEET", "true")

	cfg, err := Parse([]byte(sheetsYAML))
	require.NoError(t, err)

	assert.True(t, cfg.Store.CreateSheet)

	assert.Equal(t, "Registrations", cfg.Relay.SheetName)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.NotifyEnabled())
}

func TestValidate(t *testing.T) {
	t.Run("Missing spreadsheet id", func(t *testing.T) {
		cfg := &Config{Server: ServerConfig{Port: 8080}}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "spreadsheet id")
	})

	t.Run("Postgres defaults", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: 8080},
			Store:    StoreConfig{Type: StorePostgres},
			Database: DatabaseConfig{Host: "localhost", User: "pe", Database: "pe"},
		}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres://pe:@localhost:5432/pe?sslmode=disable", cfg.GetDatabaseConnectionString())
	})

	t.Run("Unknown store", func(t *testing.T) {
		cfg := &Config{Server: ServerConfig{Port: 8080}, Store: StoreConfig{Type: "excel"}}
		assert.ErrorContains(t, cfg.Validate(), "unsupported store type")
	})

	t.Run("Measurement sink needs credentials", func(t *testing.T) {
		cfg := &Config{
			Server:    ServerConfig{Port: 8080},
			Store:     StoreConfig{Type: StoreMemory},
			Analytics: AnalyticsConfig{Sink: SinkMeasurement, MeasurementID: "G-TEST"},
		}
		assert.ErrorContains(t, cfg.Validate(), "api secret")
	})

	t.Run("Bad timezone", func(t *testing.T) {
		cfg := &Config{
			Server: ServerConfig{Port: 8080},
			Store:  StoreConfig{Type: StoreMemory},
			Relay:  RelayConfig{Timezone: "Mars/Olympus"},
		}
		assert.ErrorContains(t, cfg.Validate(), "invalid relay timezone")
	})

	t.Run("Invalid port", func(t *testing.T) {
		cfg := &Config{Store: StoreConfig{Type: StoreMemory}}
		assert.ErrorContains(t, cfg.Validate(), "invalid server port")
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sheetsYAML+"relay:\n  timezone: America/New_York\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", cfg.Location().String())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
