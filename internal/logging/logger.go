// Package logging provides structured console logging with secret redaction.
package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when no level, or an unknown one, is given.
const DefaultLevel = zerolog.WarnLevel

// Known secret field names that must never be printed in clear.
var secretFieldNames = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"credentials",
	"private_key",
	"privatekey",
	"api_key",
	"apikey",
}

// ParseLevel converts a level name, falling back to DefaultLevel.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return DefaultLevel
	}
	return lvl
}

// NewLogger creates a human-readable logger writing to w.
func NewLogger(w io.Writer, level string, noColor bool) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}

	return zerolog.New(writer).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("component", "legion").
		Logger()
}

// NewJSONLogger creates a JSON-formatted logger for machine consumption.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("component", "legion").
		Logger()
}

// IsSecretField checks if a field name is a known secret field that should be redacted.
func IsSecretField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, secret := range secretFieldNames {
		if strings.Contains(lower, secret) {
			return true
		}
	}
	return false
}

// RedactValue replaces a secret value with a safe placeholder containing a hash prefix.
func RedactValue(value string) string {
	if value == "" {
		return ""
	}
	h := sha256.Sum256([]byte(value))
	return "[REDACTED:sha256:" + hex.EncodeToString(h[:])[:8] + "]"
}

// Field returns value unchanged, or redacted when name is a secret field.
func Field(name, value string) string {
	if IsSecretField(name) {
		return RedactValue(value)
	}
	return value
}
