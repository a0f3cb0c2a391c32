package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadFrom tests loading with various environment and file combinations
func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Server.MaxUploadBytes)
				assert.Equal(t, []string{"http://localhost:3000"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, DriverSQLite, cfg.Database.Driver)
				assert.Equal(t, DefaultSQLitePath, cfg.Database.DSN)
				assert.Equal(t, BackendLocal, cfg.Storage.Backend)
				assert.Equal(t, DefaultArchiveDir, cfg.Storage.LocalDir)
				assert.Equal(t, 16, cfg.Analysis.MaxCurves)
				assert.Equal(t, "exclusive", cfg.Analysis.QuartileMethod)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"LAS_SERVER_PORT":              "9090",
				"LAS_SERVER_READ_TIMEOUT":      "30s",
				"LAS_SECURITY_ALLOWED_ORIGINS": "http://example.com,https://example.com",
				"LAS_SECURITY_RATE_LIMIT_RPS":  "5",
				"LAS_LOGGING_LEVEL":            "debug",
				"LAS_DATABASE_DRIVER":          "mysql",
				"LAS_DATABASE_DSN":             "las:secret@tcp(db:3306)/las?parseTime=true",
				"LAS_STORAGE_BACKEND":          "gcs",
				"LAS_STORAGE_BUCKET":           "well-logs",
				"LAS_ANALYSIS_QUARTILE_METHOD": "nearest-rank",
				"LAS_ANALYSIS_MAX_CURVES":      "4",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, 5.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, DriverMySQL, cfg.Database.Driver)
				assert.Equal(t, BackendGCS, cfg.Storage.Backend)
				assert.Equal(t, "well-logs", cfg.Storage.Bucket)
				assert.Equal(t, "nearest-rank", cfg.Analysis.QuartileMethod)
				assert.Equal(t, 4, cfg.Analysis.MaxCurves)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"LAS_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"LAS_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "empty allowed origins with CORS on",
			env:     map[string]string{"LAS_SECURITY_ALLOWED_ORIGINS": ""},
			wantErr: true,
		},
		{
			name:    "unknown database driver",
			env:     map[string]string{"LAS_DATABASE_DRIVER": "postgres"},
			wantErr: true,
		},
		{
			name:    "gcs without bucket",
			env:     map[string]string{"LAS_STORAGE_BACKEND": "gcs"},
			wantErr: true,
		},
		{
			name:    "unknown quartile method",
			env:     map[string]string{"LAS_ANALYSIS_QUARTILE_METHOD": "linear"},
			wantErr: true,
		},
		{
			name: "file values fill in under defaults",
			file: `
server:
  port: 6060
  read_timeout: 20s
database:
  dsn: /var/lib/las/las.db
storage:
  local_dir: /srv/archive
analysis:
  max_curves: 8
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "/var/lib/las/las.db", cfg.Database.DSN)
				assert.Equal(t, "/srv/archive", cfg.Storage.LocalDir)
				assert.Equal(t, 8, cfg.Analysis.MaxCurves)
			},
		},
		{
			name: "environment overrides file",
			env: map[string]string{
				"LAS_SERVER_PORT":   "7070",
				"LAS_LOGGING_LEVEL": "warn",
			},
			file: `
server:
  port: 6060
logging:
  level: error
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name:    "malformed file",
			file:    "server: [port",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestMergeConfigs(t *testing.T) {
	file := Config{
		Server:  ServerConfig{Port: 6060},
		Storage: StorageConfig{Bucket: "from-file"},
	}
	env := *Default()

	t.Run("file wins over defaults", func(t *testing.T) {
		merged := mergeConfigs(file, env, map[string]bool{})
		assert.Equal(t, 6060, merged.Server.Port)
		assert.Equal(t, "from-file", merged.Storage.Bucket)
		assert.Equal(t, env.Server.ReadTimeout, merged.Server.ReadTimeout)
	})

	t.Run("explicit env wins over file", func(t *testing.T) {
		merged := mergeConfigs(file, env, map[string]bool{"LAS_SERVER_PORT": true})
		assert.Equal(t, 8080, merged.Server.Port)
		assert.Equal(t, "from-file", merged.Storage.Bucket)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, "write timeout"},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }, "max upload bytes"},
		{"bad logging output", func(c *Config) { c.Logging.Output = "syslog" }, "invalid logging output"},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, "dsn is required"},
		{"local without dir", func(c *Config) { c.Storage.LocalDir = "" }, "local_dir is required"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }, "unsupported storage backend"},
		{"zero max curves", func(c *Config) { c.Analysis.MaxCurves = 0 }, "max curves"},
		{"CORS off allows no origins", func(c *Config) {
			c.Security.EnableCORS = false
			c.Security.AllowedOrigins = nil
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_FillsInsertBatch(t *testing.T) {
	cfg := Default()
	cfg.Database.InsertBatch = 0
	require.NoError(t, cfg.validate())
	assert.Equal(t, DefaultInsertBatch, cfg.Database.InsertBatch)
}

func TestGetConfigFilePath(t *testing.T) {
	dir := t.TempDir()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(original) })

	assert.Equal(t, "", getConfigFilePath())

	require.NoError(t, os.MkdirAll("configs", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "config.yaml"), []byte("{}"), 0644))
	assert.Equal(t, "configs/config.yaml", getConfigFilePath())

	require.NoError(t, os.WriteFile("config.yaml", []byte("{}"), 0644))
	assert.Equal(t, "config.yaml", getConfigFilePath())
}
