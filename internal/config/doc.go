// Package config provides centralized configuration management for the LAS analyzer.
// It loads configuration from the environment and an optional YAML file, validates it,
// and exposes a typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. config.yaml or configs/config.yaml
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LAS_<SECTION>_<FIELD>:
//
//	LAS_SERVER_PORT=8080
//	LAS_DATABASE_DRIVER=mysql
//	LAS_DATABASE_DSN=user:pass@tcp(db:3306)/las?parseTime=true
//	LAS_STORAGE_BACKEND=gcs
//	LAS_STORAGE_BUCKET=well-logs
//	LAS_ANALYSIS_QUARTILE_METHOD=nearest-rank
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tools and tests that need no environment use config.Default().
package config
