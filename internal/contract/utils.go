package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/churnchart/schema"
)

// Dominance label constants.
const (
	AdditionsValue = "Additions"
	DeletionsValue = "Deletions"
	BalancedValue  = "Balanced"
)

// Color variables for console output.
var (
	AdditionsColor = color.New(color.FgGreen, color.Bold) // growth
	DeletionsColor = color.New(color.FgRed, color.Bold)   // cleanup
	BalancedColor  = color.New(color.FgYellow)            // mixed change
	RiseColor      = color.New(color.FgGreen)
	FallColor      = color.New(color.FgRed)
)

// GetPlainLabel returns a plain text label for a dominance class.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(d schema.Dominance) string {
	switch d {
	case schema.AdditionsDominant:
		return AdditionsValue
	case schema.DeletionsDominant:
		return DeletionsValue
	default:
		return BalancedValue
	}
}

// GetColorLabel returns a colored dominance label for console output (table).
func GetColorLabel(d schema.Dominance) string {
	text := GetPlainLabel(d)
	switch text {
	case AdditionsValue:
		return AdditionsColor.Sprint(text)
	case DeletionsValue:
		return DeletionsColor.Sprint(text)
	default:
		return BalancedColor.Sprint(text)
	}
}

// FormatPercentChange renders a signed percentage, colored when requested.
func FormatPercentChange(pct float64, precision int, useColors bool) string {
	text := fmt.Sprintf("%+.*f%%", precision, pct)
	if !useColors {
		return text
	}
	switch {
	case pct > 0:
		return RiseColor.Sprint(text)
	case pct < 0:
		return FallColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
