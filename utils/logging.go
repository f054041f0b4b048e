package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// SetupLogging points the global logger at stdout and, when it can be
// opened, a dated log file in the working directory.
func SetupLogging() {
	logFileName := fmt.Sprintf("photos_%s.log", time.Now().Format("2006-01-02"))

	// Try to open log file, but don't fail if we can't
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(os.Stdout)
		log.Printf("Warning: Could not create log file: %v", err)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

// NewCustomLogger creates a new logger with a specific prefix
func NewCustomLogger(prefix string) *log.Logger {
	// Get the global logger's output
	return log.New(log.Writer(), fmt.Sprintf("[%s] ", prefix), log.Ldate|log.Ltime|log.Lshortfile)
}
