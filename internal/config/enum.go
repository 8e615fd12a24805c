package config

import (
	"fmt"
	"sort"
	"strings"
)

// normalizer maps loosely written strings onto a typed enum.
type normalizer[T comparable] struct {
	values map[string]T
	keys   []string
}

func newNormalizer[T comparable](values map[string]T) *normalizer[T] {
	n := &normalizer[T]{values: make(map[string]T, len(values))}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	sort.Strings(n.keys)
	return n
}

func (n *normalizer[T]) normalize(raw string) (T, error) {
	if v, ok := n.values[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %q", raw, n.keys)
}

func clean(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// PaperSize is the LaTeX paper size passed to print builders.
type PaperSize string

const (
	PaperNone   PaperSize = ""
	PaperA4     PaperSize = "a4"
	PaperLetter PaperSize = "letter"
)

var paperNormalizer = newNormalizer(map[string]PaperSize{
	"":       PaperNone,
	"a4":     PaperA4,
	"letter": PaperLetter,
})

// NormalizePaper validates a PAPER value; the empty string means no paper option.
func NormalizePaper(raw string) (PaperSize, error) {
	return paperNormalizer.normalize(raw)
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = newNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
})

// NormalizeLogLevel falls back to info for unknown input.
func NormalizeLogLevel(raw string) LogLevel {
	if lvl, err := logLevelNormalizer.normalize(raw); err == nil {
		return lvl
	}
	return LogLevelInfo
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = newNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
})

// NormalizeLogFormat falls back to text for unknown input.
func NormalizeLogFormat(raw string) LogFormat {
	if f, err := logFormatNormalizer.normalize(raw); err == nil {
		return f
	}
	return LogFormatText
}
