// Package config provides configuration management for the timesheet tools.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TSC_<SECTION>_<FIELD>:
//
//	TSC_LOGGING_LEVEL=debug
//	TSC_TIMESHEET_SKIP_LINES=3
//	TSC_TIMESHEET_TIMEZONE=Australia/Sydney
//	TSC_EXPORT_FORMAT=xlsx
//	TSC_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/timesheet.prom
//
// # Configuration File
//
//	logging:
//	  level: info
//	  output: stderr
//	timesheet:
//	  skip_lines: 3
//	  timezone: UTC
//	  workers: 4
//	export:
//	  dir: data/reports
//	  format: json
//	  bom: true
//	telemetry:
//	  tracing: false
//	  trace_exporter: stdout
//
// Unknown keys in the file are rejected.
//
// # Validation
//
// Every field carries a validate tag checked with go-playground/validator after
// all sources are merged. Failures are returned as *errors.AppError of type CONFIG.
package config
