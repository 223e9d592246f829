package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DB       DBConfig       `koanf:"db"`
	Telegram TelegramConfig `koanf:"telegram"`
	Report   ReportConfig   `koanf:"report"`
	Archive  ArchiveConfig  `koanf:"archive"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
}

type DBConfig struct {
	URL         string `koanf:"url"` // full connection URL, overrides the fields below
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	User        string `koanf:"user"`
	Password    string `koanf:"password"`
	Database    string `koanf:"database"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// DSN returns the pgx connection string. User, password and database are
// escaped, so they may contain '@', ':' or '/'.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	return u.String()
}

type TelegramConfig struct {
	Token   string `koanf:"token"`
	AdminID int64  `koanf:"admin_id"` // chat that is always treated as admin
}

type ReportConfig struct {
	BusinessName string `koanf:"business_name"`
	Timezone     string `koanf:"timezone"`
	ExpiringDays int    `koanf:"expiring_days"`
	OutputDir    string `koanf:"output_dir"`
}

// Location returns the configured timezone. Validate must have passed.
func (c ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type ArchiveConfig struct {
	Path string `koanf:"path"` // empty disables the run archive
}

type MetricsConfig struct {
	Addr string `koanf:"addr"` // empty disables the /metrics server
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB: DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "mealroute",
		},
		Report: ReportConfig{
			BusinessName: "MealRoute",
			Timezone:     "Asia/Kolkata",
			ExpiringDays: 3,
			OutputDir:    ".",
		},
		Archive: ArchiveConfig{Path: "mealroute-runs.db"},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads .env, then the optional YAML/JSON file at path, then environment
// variables. Later sources win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error
	cfg.DB.URL = getEnv("DATABASE_URL", cfg.DB.URL)
	cfg.DB.Host = getEnv("DB_HOST", cfg.DB.Host)
	if cfg.DB.Port, err = getEnvInt("DB_PORT", cfg.DB.Port); err != nil {
		return err
	}
	cfg.DB.User = getEnv("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Database = getEnv("DB_NAME", cfg.DB.Database)
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v != "" {
		cfg.DB.AutoMigrate = v == "1" || strings.EqualFold(v, "true")
	}

	cfg.Telegram.Token = getEnv("TOKEN", cfg.Telegram.Token)
	if v := os.Getenv("ADMIN_ID"); v != "" {
		id, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if perr != nil {
			return fmt.Errorf("ADMIN_ID: %w", perr)
		}
		cfg.Telegram.AdminID = id
	}

	cfg.Report.BusinessName = getEnv("BUSINESS_NAME", cfg.Report.BusinessName)
	cfg.Report.Timezone = getEnv("TIMEZONE", cfg.Report.Timezone)
	if cfg.Report.ExpiringDays, err = getEnvInt("EXPIRING_DAYS", cfg.Report.ExpiringDays); err != nil {
		return err
	}
	cfg.Report.OutputDir = getEnv("OUTPUT_DIR", cfg.Report.OutputDir)
	cfg.Archive.Path = getEnv("ARCHIVE_PATH", cfg.Archive.Path)
	cfg.Metrics.Addr = getEnv("METRICS_ADDR", cfg.Metrics.Addr)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	return nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.DB.URL != "" {
		if _, err := url.Parse(c.DB.URL); err != nil {
			return fmt.Errorf("db url: %w", err)
		}
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		return fmt.Errorf("db port out of range: %d", c.DB.Port)
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Report.Timezone, err)
	}
	if c.Report.ExpiringDays < 0 {
		return fmt.Errorf("expiring_days must be >= 0")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
