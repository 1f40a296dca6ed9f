package errors

import (
	"strings"
	"unicode"
)

// ValidateStationID checks that id addresses one of count stations.
// Station IDs are 1-based; zero and negative IDs are never real stations.
func ValidateStationID(id, count int) error {
	if id < 1 || id > count {
		return New(ErrCodeStationNotFound, "station %d out of range [1, %d]", id, count)
	}
	return nil
}

// ValidateClock checks that v is a 24-hour HHMM clock value such as 850 or 1745.
// Leading zeros are not required, so 5 means 00:05.
func ValidateClock(v int) error {
	if v < 0 || v > 2359 {
		return New(ErrCodeInvalidClock, "clock %d out of range [0, 2359]", v)
	}
	if v%100 > 59 {
		return New(ErrCodeInvalidClock, "clock %d has invalid minutes", v)
	}
	return nil
}

// ValidateStationName validates a station name read from a timetable or typed
// by a user.
//
// Validation rules:
//   - Name cannot be empty or whitespace only
//   - Maximum length of 128 characters
//   - No control characters
func ValidateStationName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidStation, "station name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidStation, "station name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStation, "station name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a timetable file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
