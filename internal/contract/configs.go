package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/stylemetrics/schema"
)

// Default values for configuration.
const (
	DefaultSourceDir  = "src"
	DefaultTestDir    = "tests"
	DefaultExtension  = ".php"
	DefaultTestSuffix = TestMarker + DefaultExtension
	TestMarker        = "Test" // test files end in TestMarker + extension
	DefaultReportFile = "metrics_output.yaml"
	DefaultPrecision  = 2
	DefaultS3Region   = "us-east-1"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Precondition errors. These abort a run before any metric executes.
var (
	ErrRootNotFound      = errors.New("project root not found")
	ErrSourceDirNotFound = errors.New("source directory not found")
)

// S3Config holds object storage settings for report upload.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string // Please use env var as this is plaintext
	UseSSL    bool
}

// Enabled reports whether report upload is configured.
func (s S3Config) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// Config holds the runtime configuration for an extraction.
// This struct is the "final, validated" config.
type Config struct {
	RootPath   string
	SourceDir  string
	TestDir    string
	Extension  string
	TestSuffix string
	Workers    int

	Output     schema.OutputMode
	OutputFile string
	ReportFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)

	SinkBackend   schema.DatabaseBackend
	SinkDBConnect string // Please use env var as this is plaintext

	S3 S3Config

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RootPathStr string
	SourceArg   string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Precision     int    `mapstructure:"precision"`
	Width         int    `mapstructure:"width"`
	Workers       int    `mapstructure:"workers"`
	SinkBackend   string `mapstructure:"sink-backend"`
	SinkDBConnect string `mapstructure:"sink-db-connect"`
	Emoji         string `mapstructure:"emoji"`
	Color         string `mapstructure:"color"`

	// --- Fields from extractCmd.Flags() ---
	SrcDir     string `mapstructure:"src-dir"`
	TestDir    string `mapstructure:"test-dir"`
	Ext        string `mapstructure:"ext"`
	TestSuffix string `mapstructure:"test-suffix"`
	ReportFile string `mapstructure:"report-file"`

	// --- Object storage ---
	S3Endpoint  string `mapstructure:"s3-endpoint"`
	S3Region    string `mapstructure:"s3-region"`
	S3Bucket    string `mapstructure:"s3-bucket"`
	S3AccessKey string `mapstructure:"s3-access-key"`
	S3SecretKey string `mapstructure:"s3-secret-key"`
	S3UseSSL    bool   `mapstructure:"s3-use-ssl"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SourceTree returns the project identity the engine runs against.
func (c *Config) SourceTree() schema.SourceTree {
	return schema.SourceTree{RootPath: c.RootPath, SourceSubdir: c.SourceDir, TestSubdir: c.TestDir}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(_ context.Context, cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateSinkConfig(cfg, input); err != nil {
		return err
	}
	if err := processObjectStorage(cfg, input); err != nil {
		return err
	}
	return resolveSourceTree(cfg, input)
}

// ProcessOutputConfig validates the rendering and scanning options and
// records the configured source and test directories without checking them.
// Commands that get their project later (rules, mcp) use it instead of ProcessAndValidate.
func ProcessOutputConfig(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	cfg.SourceDir = input.SrcDir
	cfg.TestDir = input.TestDir
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.ReportFile = input.ReportFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, yaml, json, csv, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	cfg.Extension = input.Ext
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
	cfg.TestSuffix = input.TestSuffix
	if cfg.TestSuffix == "" {
		cfg.TestSuffix = TestMarker + cfg.Extension
	}
	return nil
}

// validateSinkConfig validates the run sink backend configuration.
func validateSinkConfig(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(input.SinkBackend)
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.SinkBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.SinkBackend]; !ok {
		return fmt.Errorf("invalid sink backend '%s'. must be sqlite, mysql, postgresql, none", input.SinkBackend)
	}
	cfg.SinkDBConnect = input.SinkDBConnect
	return ValidateDatabaseConnectionString(cfg.SinkBackend, cfg.SinkDBConnect)
}

// processObjectStorage validates the optional report upload target.
func processObjectStorage(cfg *Config, input *ConfigRawInput) error {
	cfg.S3 = S3Config{
		Endpoint:  strings.TrimSpace(input.S3Endpoint),
		Region:    strings.TrimSpace(input.S3Region),
		Bucket:    strings.TrimSpace(input.S3Bucket),
		AccessKey: strings.TrimSpace(input.S3AccessKey),
		SecretKey: strings.TrimSpace(input.S3SecretKey),
		UseSSL:    input.S3UseSSL,
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = DefaultS3Region
	}
	if cfg.S3.Endpoint == "" && cfg.S3.Bucket == "" {
		return nil
	}
	if cfg.S3.Endpoint == "" || cfg.S3.Bucket == "" {
		return errors.New("--s3-endpoint and --s3-bucket must be set together")
	}
	if cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "" {
		return errors.New("s3 access key and secret key are required when upload is enabled")
	}
	return nil
}

// resolveSourceTree checks that the project root and source directory exist.
func resolveSourceTree(cfg *Config, input *ConfigRawInput) error {
	if input.RootPathStr == "" {
		return errors.New("project root argument is required")
	}
	absRoot, err := filepath.Abs(input.RootPathStr)
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}
	cfg.RootPath = absRoot

	cfg.SourceDir = input.SrcDir
	if input.SourceArg != "" {
		cfg.SourceDir = input.SourceArg
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}
	cfg.TestDir = input.TestDir
	if cfg.TestDir == "" {
		cfg.TestDir = DefaultTestDir
	}

	return CheckSourceTree(cfg.SourceTree())
}

// CheckSourceTree verifies the preconditions of a run: the root and the
// source directory must both exist as directories.
func CheckSourceTree(st schema.SourceTree) error {
	if !isDir(st.RootPath) {
		return fmt.Errorf("%w: %s", ErrRootNotFound, st.RootPath)
	}
	if !isDir(st.SourcePath()) {
		return fmt.Errorf("%w: %s", ErrSourceDirNotFound, st.SourcePath())
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("sink-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return errors.New("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return errors.New("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("sink-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return errors.New("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return errors.New("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
