package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// Email trims and lower-cases s so uniqueness checks are case-insensitive.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Username validates a display name with a reasonable max length.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 50 {
		return "", false
	}
	return s, true
}

// Password enforces a length window; bcrypt ignores bytes past 72.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72
}

// Search trims a free-text term and clamps it to 100 runes. Any characters
// are allowed: the term only ever travels as a bound parameter.
func Search(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 100 {
		s = string([]rune(s)[:100])
	}
	return s
}

// ID parses a positive integer identifier.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// OptionalID is ID for query parameters that may be absent. ok is false
// only when a value was given and is malformed.
func OptionalID(s string) (id *int64, ok bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	n, ok := ID(s)
	if !ok {
		return nil, false
	}
	return &n, true
}

// Rating checks the inclusive bound.
func Rating(v, min, max int) bool {
	return v >= min && v <= max
}
