package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DatabaseConfig selects the relational store that holds wells, curves and rows.
type DatabaseConfig struct {
	Driver      string `yaml:"driver" envconfig:"DRIVER" default:"sqlite"`
	DSN         string `yaml:"dsn" envconfig:"DSN" default:"data/las.db"`
	Debug       bool   `yaml:"debug" envconfig:"DEBUG" default:"false"`
	InsertBatch int    `yaml:"insert_batch" envconfig:"INSERT_BATCH" default:"500"`
}

// StorageConfig selects where uploaded LAS files are archived.
type StorageConfig struct {
	Backend         string `yaml:"backend" envconfig:"BACKEND" default:"local"`
	LocalDir        string `yaml:"local_dir" envconfig:"LOCAL_DIR" default:"data/archive"`
	Bucket          string `yaml:"bucket" envconfig:"BUCKET"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	PublicBaseURL   string `yaml:"public_base_url" envconfig:"PUBLIC_BASE_URL"`
}

// AnalysisConfig tunes the interpretation endpoint.
type AnalysisConfig struct {
	MaxCurves      int    `yaml:"max_curves" envconfig:"MAX_CURVES" default:"16"`
	QuartileMethod string `yaml:"quartile_method" envconfig:"QUARTILE_METHOD" default:"exclusive"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration with the given YAML file underneath the environment.
// An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg, setEnv())
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setEnv returns the names of LAS_ variables present in the environment.
func setEnv() map[string]bool {
	out := make(map[string]bool)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix+"_") {
			out[name] = true
		}
	}
	return out
}

// mergeConfigs merges file config with env config. A value explicitly set in the
// environment wins; otherwise a non-zero file value replaces the envconfig default.
func mergeConfigs(fileConfig, envConfig Config, env map[string]bool) Config {
	pick := func(name string, fileSet bool) bool {
		return fileSet && !env[EnvPrefix+"_"+name]
	}

	// Server config
	if pick("SERVER_PORT", fileConfig.Server.Port != 0) {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if pick("SERVER_READ_TIMEOUT", fileConfig.Server.ReadTimeout != 0) {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if pick("SERVER_WRITE_TIMEOUT", fileConfig.Server.WriteTimeout != 0) {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if pick("SERVER_IDLE_TIMEOUT", fileConfig.Server.IdleTimeout != 0) {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if pick("SERVER_MAX_UPLOAD_BYTES", fileConfig.Server.MaxUploadBytes != 0) {
		envConfig.Server.MaxUploadBytes = fileConfig.Server.MaxUploadBytes
	}
	if pick("SERVER_SHUTDOWN_TIMEOUT", fileConfig.Server.ShutdownTimeout != 0) {
		envConfig.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}

	// Security config
	if pick("SECURITY_ALLOWED_ORIGINS", len(fileConfig.Security.AllowedOrigins) > 0) {
		envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if pick("SECURITY_RATE_LIMIT_RPS", fileConfig.Security.RateLimit.RPS != 0) {
		envConfig.Security.RateLimit.RPS = fileConfig.Security.RateLimit.RPS
	}
	if pick("SECURITY_RATE_LIMIT_BURST", fileConfig.Security.RateLimit.Burst != 0) {
		envConfig.Security.RateLimit.Burst = fileConfig.Security.RateLimit.Burst
	}

	// Logging config
	if pick("LOGGING_LEVEL", fileConfig.Logging.Level != "") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if pick("LOGGING_OUTPUT", fileConfig.Logging.Output != "") {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if pick("LOGGING_FILE_PATH", fileConfig.Logging.FilePath != "") {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	// Database config
	if pick("DATABASE_DRIVER", fileConfig.Database.Driver != "") {
		envConfig.Database.Driver = fileConfig.Database.Driver
	}
	if pick("DATABASE_DSN", fileConfig.Database.DSN != "") {
		envConfig.Database.DSN = fileConfig.Database.DSN
	}
	if pick("DATABASE_DEBUG", fileConfig.Database.Debug) {
		envConfig.Database.Debug = true
	}
	if pick("DATABASE_INSERT_BATCH", fileConfig.Database.InsertBatch != 0) {
		envConfig.Database.InsertBatch = fileConfig.Database.InsertBatch
	}

	// Storage config
	if pick("STORAGE_BACKEND", fileConfig.Storage.Backend != "") {
		envConfig.Storage.Backend = fileConfig.Storage.Backend
	}
	if pick("STORAGE_LOCAL_DIR", fileConfig.Storage.LocalDir != "") {
		envConfig.Storage.LocalDir = fileConfig.Storage.LocalDir
	}
	if pick("STORAGE_BUCKET", fileConfig.Storage.Bucket != "") {
		envConfig.Storage.Bucket = fileConfig.Storage.Bucket
	}
	if pick("STORAGE_CREDENTIALS_FILE", fileConfig.Storage.CredentialsFile != "") {
		envConfig.Storage.CredentialsFile = fileConfig.Storage.CredentialsFile
	}
	if pick("STORAGE_PUBLIC_BASE_URL", fileConfig.Storage.PublicBaseURL != "") {
		envConfig.Storage.PublicBaseURL = fileConfig.Storage.PublicBaseURL
	}

	// Analysis config
	if pick("ANALYSIS_MAX_CURVES", fileConfig.Analysis.MaxCurves != 0) {
		envConfig.Analysis.MaxCurves = fileConfig.Analysis.MaxCurves
	}
	if pick("ANALYSIS_QUARTILE_METHOD", fileConfig.Analysis.QuartileMethod != "") {
		envConfig.Analysis.QuartileMethod = fileConfig.Analysis.QuartileMethod
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.Database.InsertBatch <= 0 {
		c.Database.InsertBatch = DefaultInsertBatch
	}

	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("storage local_dir is required for the local backend")
		}
	case BackendGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %q", c.Storage.Backend)
	}

	if c.Analysis.MaxCurves <= 0 {
		return fmt.Errorf("analysis max curves must be positive")
	}
	switch c.Analysis.QuartileMethod {
	case "", "exclusive", "nearest-rank":
	default:
		return fmt.Errorf("unsupported quartile method: %q", c.Analysis.QuartileMethod)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			MaxUploadBytes:  DefaultMaxUploadBytes,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Database: DatabaseConfig{
			Driver:      DriverSQLite,
			DSN:         DefaultSQLitePath,
			InsertBatch: DefaultInsertBatch,
		},
		Storage: StorageConfig{
			Backend:  BackendLocal,
			LocalDir: DefaultArchiveDir,
		},
		Analysis: AnalysisConfig{
			MaxCurves:      DefaultMaxCurves,
			QuartileMethod: "exclusive",
		},
	}
}
