// Package logger builds the application's zerolog logger: human-readable output to the
// console and to a UTF-8 log file at the same time.
package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// New returns a logger writing to console and appending to file. The returned closer
// closes the log file.
func New(level, file string, console io.Writer) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logger: %w", err)
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logger: open %s: %w", file, err)
	}

	w := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat, FormatFieldValue: fieldValue},
		zerolog.ConsoleWriter{Out: f, TimeFormat: timeFormat, NoColor: true, FormatFieldValue: fieldValue},
	)

	log := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return log, f, nil
}

// fieldValue undoes the quoting ConsoleWriter applies to any non-ASCII string, so
// Korean place names are logged as is. Values with spaces, quotes or control
// characters stay quoted.
func fieldValue(i interface{}) string {
	s := fmt.Sprintf("%s", i)
	if u, err := strconv.Unquote(s); err == nil && bare(u) {
		return u
	}
	return s
}

func bare(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) || r == '"' || r == '\\' {
			return false
		}
	}
	return true
}
