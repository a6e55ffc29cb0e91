package contract

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gradekit/gradekit/schema"
)

// Color variables for console output.
var (
	excellentColor = color.New(color.FgGreen, color.Bold) // A-range
	goodColor      = color.New(color.FgCyan)              // B-range
	fairColor      = color.New(color.FgYellow)            // C/D-range
	failColor      = color.New(color.FgRed, color.Bold)   // failing
)

// GetColorLetter returns a colored letter grade for console output (table).
func GetColorLetter(letter schema.LetterGrade, final float64) string {
	text := string(letter)
	switch {
	case final >= 80:
		return excellentColor.Sprint(text)
	case final >= 70:
		return goodColor.Sprint(text)
	case final >= 50:
		return fairColor.Sprint(text)
	default:
		return failColor.Sprint(text)
	}
}

// GetStatusLabel returns a colored status label for console output.
func GetStatusLabel(status schema.RepoStatus) string {
	switch status {
	case schema.StatusGraded:
		return goodColor.Sprint(string(status))
	case schema.StatusNoSubmissions:
		return fairColor.Sprint(string(status))
	default:
		return failColor.Sprint(string(status))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncateText shortens text to maxWidth runes, keeping the leading part.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", msg, err)
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}

// LogInfo logs an informational message to stderr so it never pollutes
// machine-readable stdout output.
func LogInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
