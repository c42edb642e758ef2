// Package config loads csvplot configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority), including a .env file
//  2. A YAML configuration file
//  3. Default values from struct tags (lowest priority)
//
// The file is read from CSVPLOT_CONFIG_FILE when set, otherwise from
// config.yaml or configs/config.yaml in the working directory.
//
// # Environment Variables
//
// All environment variables follow the pattern CSVPLOT_<SECTION>_<FIELD>:
//
//	CSVPLOT_SERVER_PORT=8080
//	CSVPLOT_SERVER_MAX_UPLOAD_BYTES=0
//	CSVPLOT_LOGGING_LEVEL=debug
//	CSVPLOT_TELEMETRY_TRACE_EXPORTER=stdout
//	CSVPLOT_EXPLORER_SEED=42
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests that need no environment use Default.
package config
