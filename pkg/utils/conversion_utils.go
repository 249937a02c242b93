package utils

import (
	"strconv"
	"time"
)

// DateLayout is the wire format for calendar dates (expiration dates, report ranges).
const DateLayout = "2006-01-02"

// StrToInt64 converts a string to an int64.
// Returns 0 and an error if the conversion fails.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}

// ParseDateOrNil coerces a date string into a *time.Time. Empty input yields
// nil; a malformed value is logged and coerced to nil rather than rejected,
// so a bad expiration date never blocks the rest of a product write.
func ParseDateOrNil(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		LogWarn("Malformed date value, treating as unset", map[string]interface{}{"value": s})
		return nil
	}
	return &t
}

// NewNullString is a helper for string pointers, returning nil if string is empty.
// Useful for fields that are optional and should be NULL in DB if not provided.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
