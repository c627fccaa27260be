package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/stylemetrics/schema"
)

// Color variables for console output.
var (
	AdoptedColor = color.New(color.FgGreen, color.Bold) // full adoption or dominance
	PartialColor = color.New(color.FgYellow)            // partial adoption or mixed usage
	MissingColor = color.New(color.FgRed)               // error sentinels and absent files
	InfoColor    = color.New(color.FgCyan)              // neutral probe conclusions
)

// GetColorLabel returns a colored conclusion or sentinel for console output.
func GetColorLabel(text string) string {
	switch text {
	case schema.FullyAdopted, schema.MostlyShort, schema.ActivelyUsed:
		return AdoptedColor.Sprint(text)
	case schema.PartiallyAdopted, schema.Mixed, schema.LimitedUse:
		return PartialColor.Sprint(text)
	case schema.ErrNoPHPFiles, schema.ErrNoArrays, schema.ManifestMissing, schema.UnknownValue:
		return MissingColor.Sprint(text)
	default:
		return InfoColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational line to stderr so stdout stays machine-readable.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetSinkDBFilePath returns the path to the SQLite DB file for the run sink.
func GetSinkDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".stylemetrics_runs.db"
	}
	return filepath.Join(homeDir, ".stylemetrics_runs.db")
}

// TruncateValue truncates a value to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and some content.
func TruncateValue(value string, maxWidth int) string {
	runes := []rune(value)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return value
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
