package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"gstreport/internal/gstin"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Org     OrgConfig
	Invoice InvoiceConfig
	GSTIN   GSTINConfig
	Email   EmailConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider         string   `mapstructure:"provider"`
	Region           string   `mapstructure:"region"`
	FromAddress      string   `mapstructure:"from_address"`
	FromName         string   `mapstructure:"from_name"`
	FrontendURL      string   `mapstructure:"frontend_url"`
	ReportRecipients []string `mapstructure:"report_recipients"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver           string `mapstructure:"driver"`
	ActivityCapacity int    `mapstructure:"activity_capacity"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for publishing report files to S3.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Prefix        string `mapstructure:"prefix"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OrgConfig identifies the organisation the invoices are kept for.
// Its GSTIN decides whether an invoice is an outward or inward supply.
type OrgConfig struct {
	GSTIN string `mapstructure:"gstin"`
	Name  string `mapstructure:"name"`
}

// InvoiceConfig holds invoice lifecycle policy.
type InvoiceConfig struct {
	AllowSkipPending bool `mapstructure:"allow_skip_pending"`
}

// GSTINConfig holds identifier validation settings.
type GSTINConfig struct {
	VerifyChecksum bool `mapstructure:"verify_checksum"`
}

// Validator returns the GSTIN validator described by the config.
func (g GSTINConfig) Validator() gstin.Validator {
	return gstin.Validator{VerifyChecksum: g.VerifyChecksum}
}

// Load reads configuration from environment variables with the GSTREPORT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GSTREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// Store defaults
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.activity_capacity", 500)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstreport")
	v.SetDefault("db.password", "gstreport_secret")
	v.SetDefault("db.name", "gstreport_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "gstreport-reports")
	v.SetDefault("s3.prefix", "reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Organisation and policy defaults
	v.SetDefault("org.gstin", "")
	v.SetDefault("org.name", "")
	v.SetDefault("invoice.allow_skip_pending", false)
	v.SetDefault("gstin.verify_checksum", false)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@gstreport.local")
	v.SetDefault("email.from_name", "GST Reports")
	v.SetDefault("email.frontend_url", "http://localhost:3000")
	v.SetDefault("email.report_recipients", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "GSTREPORT_SERVER_PORT",
		"server.read_timeout":        "GSTREPORT_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "GSTREPORT_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":    "GSTREPORT_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":         "GSTREPORT_SERVER_ENVIRONMENT",
		"store.driver":               "GSTREPORT_STORE_DRIVER",
		"store.activity_capacity":    "GSTREPORT_STORE_ACTIVITY_CAPACITY",
		"db.host":                    "GSTREPORT_DB_HOST",
		"db.port":                    "GSTREPORT_DB_PORT",
		"db.user":                    "GSTREPORT_DB_USER",
		"db.password":                "GSTREPORT_DB_PASSWORD",
		"db.name":                    "GSTREPORT_DB_NAME",
		"db.sslmode":                 "GSTREPORT_DB_SSLMODE",
		"db.max_open":                "GSTREPORT_DB_MAX_OPEN",
		"db.max_idle":                "GSTREPORT_DB_MAX_IDLE",
		"s3.enabled":                 "GSTREPORT_S3_ENABLED",
		"s3.region":                  "GSTREPORT_S3_REGION",
		"s3.bucket":                  "GSTREPORT_S3_BUCKET",
		"s3.prefix":                  "GSTREPORT_S3_PREFIX",
		"s3.endpoint":                "GSTREPORT_S3_ENDPOINT",
		"s3.access_key":              "GSTREPORT_S3_ACCESS_KEY",
		"s3.secret_key":              "GSTREPORT_S3_SECRET_KEY",
		"s3.presign_expiry":          "GSTREPORT_S3_PRESIGN_EXPIRY",
		"log.level":                  "GSTREPORT_LOG_LEVEL",
		"log.format":                 "GSTREPORT_LOG_FORMAT",
		"cors.allowed_origins":       "GSTREPORT_CORS_ALLOWED_ORIGINS",
		"org.gstin":                  "GSTREPORT_ORG_GSTIN",
		"org.name":                   "GSTREPORT_ORG_NAME",
		"invoice.allow_skip_pending": "GSTREPORT_INVOICE_ALLOW_SKIP_PENDING",
		"gstin.verify_checksum":      "GSTREPORT_GSTIN_VERIFY_CHECKSUM",
		"email.provider":             "GSTREPORT_EMAIL_PROVIDER",
		"email.region":               "GSTREPORT_EMAIL_REGION",
		"email.from_address":         "GSTREPORT_EMAIL_FROM_ADDRESS",
		"email.from_name":            "GSTREPORT_EMAIL_FROM_NAME",
		"email.frontend_url":         "GSTREPORT_EMAIL_FRONTEND_URL",
		"email.report_recipients":    "GSTREPORT_EMAIL_REPORT_RECIPIENTS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if GSTREPORT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GSTREPORT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.Store = StoreConfig{
		Driver:           strings.ToLower(v.GetString("store.driver")),
		ActivityCapacity: v.GetInt("store.activity_capacity"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Prefix:        v.GetString("s3.prefix"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Org = OrgConfig{
		GSTIN: v.GetString("org.gstin"),
		Name:  v.GetString("org.name"),
	}
	cfg.Invoice = InvoiceConfig{
		AllowSkipPending: v.GetBool("invoice.allow_skip_pending"),
	}
	cfg.GSTIN = GSTINConfig{
		VerifyChecksum: v.GetBool("gstin.verify_checksum"),
	}
	cfg.Email = EmailConfig{
		Provider:         v.GetString("email.provider"),
		Region:           v.GetString("email.region"),
		FromAddress:      v.GetString("email.from_address"),
		FromName:         v.GetString("email.from_name"),
		FrontendURL:      v.GetString("email.frontend_url"),
		ReportRecipients: splitList(v.GetString("email.report_recipients")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("config: unknown store.driver %q (want %s or %s)", c.Store.Driver, DriverMemory, DriverPostgres)
	}
	if c.Org.GSTIN != "" {
		if res := c.GSTIN.Validator().Validate(c.Org.GSTIN); !res.Valid {
			return fmt.Errorf("config: org.gstin %q is invalid: %s", c.Org.GSTIN, res.Reason)
		}
	}
	if c.S3.Enabled && c.S3.Bucket == "" {
		return fmt.Errorf("config: s3.bucket is required when s3.enabled is set")
	}
	return nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
