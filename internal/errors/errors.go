package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/learnlit/internal/logger"
)

// Format renders err with the "Error: " prefix used on stderr
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Warn prints a non-fatal problem with the "Warning: " prefix and logs it.
// A nil err prints nothing.
func Warn(w io.Writer, err error) {
	if err == nil {
		return
	}
	logger.Warn("Command completed with warnings", "error", err)
	fmt.Fprintf(w, "Warning: %v\n", err)
}

// Fatal logs err and exits with status 1. A nil err is ignored.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

func Fatalf(format string, args ...interface{}) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
