// Package smithytime implements the three named timestamp wire formats:
// epoch-seconds, date-time, and http-date.
//
// Grounded on the prior runtime's time/time.go, extended with fixed
// three-decimal epoch-seconds formatting and a strict-mode epoch-seconds
// reader per the spec's TimestampTypeError requirement.
package smithytime

import (
	"fmt"
	"strconv"
	"time"
)

// Format names a timestamp wire format.
type Format string

// The three named timestamp formats.
const (
	EpochSeconds Format = "epoch-seconds"
	DateTime     Format = "date-time"
	HTTPDate     Format = "http-date"
)

const (
	// dateTimeFormat is ISO-8601 extended, always rendered with a literal
	// "Z" offset (inputs are normalized to UTC before formatting).
	dateTimeFormat = "2006-01-02T15:04:05Z"

	// httpDateFormat is RFC-1123 with "GMT", English weekday/month names.
	httpDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// FormatDateTime formats value as a date-time string.
func FormatDateTime(value time.Time) string {
	return value.UTC().Format(dateTimeFormat)
}

// ParseDateTime parses a date-time string.
func ParseDateTime(value string) (time.Time, error) {
	return time.Parse(dateTimeFormat, value)
}

// FormatHTTPDate formats value as an http-date string.
func FormatHTTPDate(value time.Time) string {
	return value.UTC().Format(httpDateFormat)
}

// ParseHTTPDate parses an http-date string.
func ParseHTTPDate(value string) (time.Time, error) {
	return time.Parse(httpDateFormat, value)
}

// FormatEpochSeconds formats value as a Unix time in seconds, with fixed
// three-decimal-place precision (e.g. "1700000000.000").
func FormatEpochSeconds(value time.Time) string {
	seconds := float64(value.UnixNano()) / float64(time.Second)
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// EpochSecondsValue returns value as a Unix time in seconds with decimal
// precision, for codecs (like CBOR tag 1) that encode it as a number rather
// than a formatted string.
func EpochSecondsValue(value time.Time) float64 {
	return float64(value.UnixNano()) / float64(time.Second)
}

// ParseEpochSeconds returns the time.Time for a Unix epoch-seconds value.
func ParseEpochSeconds(value float64) time.Time {
	return time.Unix(0, int64(value*float64(time.Second))).UTC()
}

// ParseEpochSecondsStrict parses a wire value expected to be an
// epoch-seconds number. If wasString is true (the value arrived as a wire
// string rather than a number), it returns TimestampTypeError instead of
// silently coercing.
func ParseEpochSecondsStrict(value float64, wasString bool, path string) (time.Time, error) {
	if wasString {
		return time.Time{}, &TimestampTypeError{Format: string(EpochSeconds), Expected: "number", Path: path}
	}
	return ParseEpochSeconds(value), nil
}

// TimestampTypeError signals a strict-mode mismatch between a timestamp's
// expected wire shape and the shape encountered.
type TimestampTypeError struct {
	Format   string
	Expected string
	Path     string
}

func (e *TimestampTypeError) Error() string {
	return fmt.Sprintf("timestamp type error at %s: format %s expected wire shape %s", e.Path, e.Format, e.Expected)
}

// FormatFor formats value per the named format, defaulting to def when
// format is empty.
func FormatFor(value time.Time, format, def Format) string {
	f := format
	if f == "" {
		f = def
	}
	switch f {
	case DateTime:
		return FormatDateTime(value)
	case HTTPDate:
		return FormatHTTPDate(value)
	default:
		return FormatEpochSeconds(value)
	}
}

// ParseFor parses a string value per the named format, defaulting to def
// when format is empty.
func ParseFor(value string, format, def Format) (time.Time, error) {
	f := format
	if f == "" {
		f = def
	}
	switch f {
	case DateTime:
		return ParseDateTime(value)
	case HTTPDate:
		return ParseHTTPDate(value)
	default:
		fv, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse epoch-seconds: %w", err)
		}
		return ParseEpochSeconds(fv), nil
	}
}
