package config

// Application constants
const (
	// Application Info
	AppName = "timesheet-clean"

	// EnvPrefix namespaces environment variables, e.g. TSC_TIMESHEET_SKIP_LINES
	EnvPrefix = "TSC"

	// Timesheet defaults
	DefaultSkipLines = 3
	DefaultTimezone  = "UTC"
	DefaultWorkers   = 4

	// File Paths (relative to the working directory)
	DefaultReportsDir = "data/reports"
	DefaultLogFile    = "logs/timesheet-clean.log"

	// Export formats
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)
