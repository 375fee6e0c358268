package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/hrzones/schema"
)

// Color variables for console output, one per zone from easy to hard.
var (
	RecoveryColor    = color.New(color.FgCyan)                // S
	EnduranceColor   = color.New(color.FgGreen)               // GA1
	TempoColor       = color.New(color.FgYellow)              // GA2
	DevelopmentColor = color.New(color.FgMagenta, color.Bold) // EB
	PeakColor        = color.New(color.FgRed, color.Bold)     // SB
	GapColor         = color.New(color.FgHiBlack)
)

// GetColorLabel returns a colored zone label for console output (table).
func GetColorLabel(zoneName string) string {
	z, ok := schema.ParseZone(zoneName)
	if !ok {
		return GapColor.Sprint(zoneName)
	}
	switch z {
	case schema.ZoneS:
		return RecoveryColor.Sprint(zoneName)
	case schema.ZoneGA1:
		return EnduranceColor.Sprint(zoneName)
	case schema.ZoneGA2:
		return TempoColor.Sprint(zoneName)
	case schema.ZoneEB:
		return DevelopmentColor.Sprint(zoneName)
	default:
		return PeakColor.Sprint(zoneName)
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

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hrzones_history.db"
	}
	return filepath.Join(homeDir, ".hrzones_history.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis fits alongside at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
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
