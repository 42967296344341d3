package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apierrors "payrollcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Timesheet TimesheetConfig `yaml:"timesheet" envconfig:"TIMESHEET"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_if=Output file,required_if=Output both"`
}

// TimesheetConfig controls how exports are read.
type TimesheetConfig struct {
	SkipLines int    `yaml:"skip_lines" envconfig:"SKIP_LINES" validate:"min=0"`
	Timezone  string `yaml:"timezone" envconfig:"TIMEZONE" validate:"required,timezone"`
	Workers   int    `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
}

// ExportConfig controls where and how cleaned results are written.
type ExportConfig struct {
	Dir    string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json csv xlsx"`
	BOM    bool   `yaml:"bom" envconfig:"BOM"`
}

// TelemetryConfig controls tracing and the metrics snapshot.
type TelemetryConfig struct {
	Tracing       bool   `yaml:"tracing" envconfig:"TRACING"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads configuration from the first config file found in the usual
// locations, then from environment variables.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile loads configuration from defaults, then the YAML file at path (if
// path is non-empty), then TSC_* environment variables. Later sources win.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apierrors.NewConfigError("failed to load config from file", err).
				WithContext("path", path)
		}
	}

	// Fields without a TSC_* variable keep their current value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apierrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			fields = append(fields, err.Error())
		}
		return apierrors.NewConfigError("config validation failed", nil).
			WithContext("fields", strings.Join(fields, "; "))
	}
	return nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timesheet.Timezone)
	if err != nil {
		return nil, apierrors.NewConfigError("unknown time zone", err).
			WithContext("timezone", c.Timesheet.Timezone)
	}
	return loc, nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"timesheet.yaml",
		"configs/timesheet.yaml",
		"../configs/timesheet.yaml",
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
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stderr",
			FilePath: DefaultLogFile,
		},
		Timesheet: TimesheetConfig{
			SkipLines: DefaultSkipLines,
			Timezone:  DefaultTimezone,
			Workers:   DefaultWorkers,
		},
		Export: ExportConfig{
			Dir:    DefaultReportsDir,
			Format: FormatJSON,
			BOM:    true,
		},
		Telemetry: TelemetryConfig{
			Tracing:       false,
			TraceExporter: "stdout",
		},
	}
}
