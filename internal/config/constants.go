package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "LAS Analyzer"
	AppVersion = "1.0.0"

	// Environment variable prefix, e.g. LAS_SERVER_PORT
	EnvPrefix = "LAS"

	// Upload limits
	DefaultMaxUploadBytes = 32 << 20
	UploadFormField       = "lasFile"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// Storage
	DefaultSQLitePath   = "data/las.db"
	DefaultArchiveDir   = "data/archive"
	DefaultLogFile      = "logs/app.log"
	DefaultInsertBatch  = 500
	DefaultMaxCurves    = 16
	DefaultGCSPublicURL = "https://storage.googleapis.com"
)

// Database drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Archive backends
const (
	BackendLocal = "local"
	BackendGCS   = "gcs"
)
