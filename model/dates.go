package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CanonicalDateLayout is the only representation of dates stored in
// entities and compared by the sync engine.
const CanonicalDateLayout = "2006-01-02T15:04:05Z"

// DisplayDateLayout is used when presenting dates to the author.
const DisplayDateLayout = "01/02/2006"

var ErrInvalidDate = errors.New("invalid date")

// accepted input layouts, tried in order
var dateLayouts = []string{
	CanonicalDateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	DisplayDateLayout,
	"1/2/2006",
}

// ParseDate parses any of accepted date representations.
func ParseDate(in string) (time.Time, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return time.Time{}, fmt.Errorf("empty value: %w", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, in); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: %w", in, ErrInvalidDate)
}

// NormalizeDate converts input to canonical form. Empty input stays empty -
// empty string and absent value are the same "no value".
func NormalizeDate(in string) (string, error) {
	if strings.TrimSpace(in) == "" {
		return "", nil
	}
	t, err := ParseDate(in)
	if err != nil {
		return "", err
	}
	return t.Format(CanonicalDateLayout), nil
}

// CanonicalDate normalizes value which is expected to be already validated.
// Unparsable values are returned trimmed as is.
func CanonicalDate(in string) string {
	out, err := NormalizeDate(in)
	if err != nil {
		return strings.TrimSpace(in)
	}
	return out
}

// FormatDate renders canonical date for display, returns input unchanged if
// it cannot be parsed.
func FormatDate(in string) string {
	if in == "" {
		return ""
	}
	t, err := ParseDate(in)
	if err != nil {
		return in
	}
	return t.Format(DisplayDateLayout)
}

// SameDate compares two dates after normalization.
func SameDate(a, b string) bool {
	return CanonicalDate(a) == CanonicalDate(b)
}
