package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends accepted by StoreConfig.Type
const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Analytics sinks accepted by AnalyticsConfig.Sink
const (
	SinkLog         = "log"
	SinkMeasurement = "measurement"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Relay     RelayConfig     `yaml:"relay"`
	Store     StoreConfig     `yaml:"store"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Database  DatabaseConfig  `yaml:"database"`
	Notify    NotifyConfig    `yaml:"notify"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RelayConfig holds the deployment-time constants of the submission relay
type RelayConfig struct {
	ServiceName string `yaml:"service_name"`
	SheetName   string `yaml:"sheet_name"`
	Timezone    string `yaml:"timezone"` // IANA name used for the default Date Joined
}

// StoreConfig selects the destination backend
type StoreConfig struct {
	Type string `yaml:"type"` // "sheets", "postgres" or "memory"
	// CreateSheet registers the relay sheet at startup; postgres only.
	// Left off, a missing sheet is reported on every submission.
	CreateSheet bool `yaml:"create_sheet"`
}

// SheetsConfig contains Google Sheets API settings
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	Endpoint        string `yaml:"endpoint"` // optional API base override
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// NotifyConfig contains SendGrid settings for new registration alerts.
// Notifications are disabled when APIKey or To is empty.
type NotifyConfig struct {
	APIKey   string `yaml:"sendgrid_api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
	To       string `yaml:"to"`
}

// AnalyticsConfig configures where collected tracker events are forwarded
type AnalyticsConfig struct {
	Sink          string `yaml:"sink"` // "log" or "measurement"
	MeasurementID string `yaml:"measurement_id"`
	APISecret     string `yaml:"api_secret"`
	Endpoint      string `yaml:"endpoint"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ProbeDestination string `yaml:"probe_destination"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, applies environment overrides and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Relay
	if val := os.Getenv("SHEET_NAME"); val != "" {
		c.Relay.SheetName = val
	}
	if val := os.Getenv("RELAY_TIMEZONE"); val != "" {
		c.Relay.Timezone = val
	}

	// Store
	if val := os.Getenv("STORE_TYPE"); val != "" {
		c.Store.Type = val
	}
	if val := os.Getenv("STORE_CREATE_SHEET"); val != "" {
		c.Store.CreateSheet = val == "true" || val == "1"
	}
	if val := os.Getenv("SPREADSHEET_ID"); val != "" {
		c.Sheets.SpreadsheetID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		c.Sheets.CredentialsFile = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Notify
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notify.APIKey = val
	}
	if val := os.Getenv("NOTIFY_TO"); val != "" {
		c.Notify.To = val
	}

	// Analytics
	if val := os.Getenv("GA_MEASUREMENT_ID"); val != "" {
		c.Analytics.MeasurementID = val
	}
	if val := os.Getenv("GA_API_SECRET"); val != "" {
		c.Analytics.APISecret = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Relay defaults
	if c.Relay.ServiceName == "" {
		c.Relay.ServiceName = "PE Collective Registration"
	}
	if c.Relay.SheetName == "" {
		c.Relay.SheetName = "Members"
	}
	if c.Relay.Timezone != "" {
		if _, err := time.LoadLocation(c.Relay.Timezone); err != nil {
			return fmt.Errorf("invalid relay timezone %q: %w", c.Relay.Timezone, err)
		}
	}

	// Store validation
	if c.Store.Type == "" {
		c.Store.Type = StoreSheets
	}
	switch c.Store.Type {
	case StoreSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet id is required for the sheets store")
		}
	case StorePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported store type: %s", c.Store.Type)
	}

	// Analytics validation
	if c.Analytics.Sink == "" {
		c.Analytics.Sink = SinkLog
	}
	switch c.Analytics.Sink {
	case SinkLog:
	case SinkMeasurement:
		if c.Analytics.MeasurementID == "" || c.Analytics.APISecret == "" {
			return fmt.Errorf("measurement id and api secret are required for the measurement sink")
		}
		if c.Analytics.Endpoint == "" {
			c.Analytics.Endpoint = "https://www.google-analytics.com/mp/collect"
		}
	default:
		return fmt.Errorf("unsupported analytics sink: %s", c.Analytics.Sink)
	}

	// Notify defaults
	if c.Notify.FromName == "" {
		c.Notify.FromName = "PE Collective"
	}

	// Scheduler defaults
	if c.Scheduler.ProbeDestination == "" {
		c.Scheduler.ProbeDestination = "0 */15 * * * *" // every 15 minutes
	}

	return nil
}

// NotifyEnabled reports whether registration alerts should be sent
func (c *Config) NotifyEnabled() bool {
	return c.Notify.APIKey != "" && c.Notify.To != ""
}

// Location returns the configured relay timezone, or the server's local zone
func (c *Config) Location() *time.Location {
	if c.Relay.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Relay.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
