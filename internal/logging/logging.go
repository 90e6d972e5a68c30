// Package logging provides leveled loggers for the bridge.
//
// Everything writes to stderr: stdout belongs to the MCP stdio
// transport and must stay clean.
package logging

import (
	"log"
	"os"
)

var (
	infoLogger  = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime)
	warnLogger  = log.New(os.Stderr, "WARN: ", log.Ldate|log.Ltime)
	errorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
)

// Info logs an informational message.
func Info(format string, v ...any) {
	infoLogger.Printf(format, v...)
}

// Warn logs a warning.
func Warn(format string, v ...any) {
	warnLogger.Printf(format, v...)
}

// Error logs an error.
func Error(format string, v ...any) {
	errorLogger.Printf(format, v...)
}
