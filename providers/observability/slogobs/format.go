package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatText is slog's key=value line format (default, readable on a terminal).
	FormatText Format = "text"

	// FormatJSON is one JSON object per line (for log aggregation).
	FormatJSON Format = "json"
)

// LevelTrace sits below DEBUG and is used for per-frame stream diagnostics.
const LevelTrace = slog.LevelDebug - 4

// ParseFormat parses a format string and returns the corresponding Format.
// Unknown values fall back to FormatText.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// GetFormatFromEnv reads CHATSTREAM_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	if format := os.Getenv("CHATSTREAM_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatText
}

// ParseLogLevel parses TRACE, DEBUG, INFO, WARN/WARNING or ERROR (case-insensitive).
// Unknown values return INFO together with a non-nil error.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// GetLogLevelFromEnv reads CHATSTREAM_LOG_LEVEL, then LOG_LEVEL, defaulting to INFO.
// An unparseable value is reported on stderr and replaced by INFO.
func GetLogLevelFromEnv() slog.Level {
	raw := os.Getenv("CHATSTREAM_LOG_LEVEL")
	if raw == "" {
		raw = os.Getenv("LOG_LEVEL")
	}
	level, err := ParseLogLevel(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using INFO\n", err)
	}
	return level
}
