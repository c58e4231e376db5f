package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	JWT       JWTConfig       `yaml:"jwt"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Retention RetentionConfig `yaml:"retention"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
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

// SendGridConfig contains transactional email settings
type SendGridConfig struct {
	APIKey    string          `yaml:"api_key"`
	FromEmail string          `yaml:"from_email"`
	FromName  string          `yaml:"from_name"`
	Templates TemplatesConfig `yaml:"templates"`
}

// TemplatesConfig maps lifecycle emails to SendGrid dynamic template IDs
type TemplatesConfig struct {
	RetentionReminderLongTerm  string `yaml:"retention_reminder_long_term"`
	RetentionReminderShortStay string `yaml:"retention_reminder_short_stay"`
	FinalExpiryNotice          string `yaml:"final_expiry_notice"`
	StorageExtensionConfirmed  string `yaml:"storage_extension_confirmed"`
	DeadlineReminder           string `yaml:"deadline_reminder"`
}

// WebhookConfig contains payment webhook settings
type WebhookConfig struct {
	// Secret signs payment-completed events (HMAC-SHA256 over the raw body)
	Secret string `yaml:"secret"`
}

// JWTConfig contains service-token settings for the scan trigger endpoint
type JWTConfig struct {
	Secret           string `yaml:"secret"`
	TokenExpiryHours int    `yaml:"token_expiry_hours"`
}

// StorageConfig contains object storage settings
type StorageConfig struct {
	Type      string `yaml:"type"`       // "local" for the filesystem backend
	UploadDir string `yaml:"upload_dir"` // For local storage
	BaseURL   string `yaml:"base_url"`   // Server base URL for signed URLs
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RetentionConfig contains the retention lifecycle timing policy
type RetentionConfig struct {
	GraceDays          int `yaml:"grace_days"`            // pending-deletion window
	ReminderLevel1Days int `yaml:"reminder_level_1_days"` // first notice window
	ReminderLevel2Days int `yaml:"reminder_level_2_days"` // second notice window
	ReminderLevel3Days int `yaml:"reminder_level_3_days"` // last-call window
	ShortStayDays      int `yaml:"short_stay_days"`       // short-stay pack retention
	LongTermMonths     int `yaml:"long_term_months"`      // long-term pack retention
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	DailyScan string `yaml:"daily_scan"`
}

// MetricsConfig contains the admin metrics cache settings
type MetricsConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
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

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}

	// Webhook / JWT
	if val := os.Getenv("WEBHOOK_SECRET"); val != "" {
		c.Webhook.Secret = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Email validation
	if c.SendGrid.APIKey == "" {
		return fmt.Errorf("sendgrid api key is required")
	}
	if c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from email is required")
	}

	// Webhook validation
	if c.Webhook.Secret == "" {
		return fmt.Errorf("webhook secret is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.TokenExpiryHours == 0 {
		c.JWT.TokenExpiryHours = 24
	}

	// Storage defaults
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.Type == "local" && c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required for local storage")
	}

	// Retention defaults
	if c.Retention.GraceDays == 0 {
		c.Retention.GraceDays = 30
	}
	if c.Retention.ReminderLevel1Days == 0 {
		c.Retention.ReminderLevel1Days = 60
	}
	if c.Retention.ReminderLevel2Days == 0 {
		c.Retention.ReminderLevel2Days = 30
	}
	if c.Retention.ReminderLevel3Days == 0 {
		c.Retention.ReminderLevel3Days = 7
	}
	if c.Retention.ShortStayDays == 0 {
		c.Retention.ShortStayDays = 30
	}
	if c.Retention.LongTermMonths == 0 {
		c.Retention.LongTermMonths = 12
	}
	if c.Retention.ReminderLevel3Days >= c.Retention.ReminderLevel2Days ||
		c.Retention.ReminderLevel2Days >= c.Retention.ReminderLevel1Days {
		return fmt.Errorf("reminder windows must narrow with each level")
	}

	// Scheduler defaults
	if c.Scheduler.DailyScan == "" {
		c.Scheduler.DailyScan = "0 0 3 * * *" // 3 AM UTC
	}

	// Metrics cache default
	if c.Metrics.CacheTTLSeconds == 0 {
		c.Metrics.CacheTTLSeconds = 300
	}

	return nil
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

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
