package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const dateLayout = "2006-01-02"

// Components missing from a free-text date are taken from this anchor
const anchorYear = 1900

var (
	ordinalPattern   = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	monthYearPattern = regexp.MustCompile(`^(?:(\d{1,2})\s+)?([A-Za-z]+)\.?,?\s+(\d{4})$`)
	yearPattern      = regexp.MustCompile(`^\d{4}$`)
	shortYearPattern = regexp.MustCompile(`^\d{2}$`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// NormalizeReleaseDate converts a free-text release date to YYYY-MM-DD.
//
// nil, blank and "unknown" (any case) yield nil without error. Ordinal
// suffixes ("5th") are dropped first. Then the first of these that
// succeeds wins: a two-digit year above 31, a free-text parse, a
// "[<day>] <Month> <YYYY>" match (first of the month when no day), a
// bare "<YYYY>" match (first of January). When all fail the result is
// nil and the returned error wraps ErrUnparseableDate; callers treat it
// as a warning.
func NormalizeReleaseDate(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" || strings.EqualFold(value, "unknown") {
		return nil, nil
	}
	value = ordinalPattern.ReplaceAllString(value, "$1")

	if t, ok := parseShortYear(value, time.Now().Year()); ok {
		return formatDate(t), nil
	}

	if t, err := parseFreeText(value); err == nil {
		return formatDate(t), nil
	}

	if t, ok := parseMonthYear(value); ok {
		return formatDate(t), nil
	}
	if yearPattern.MatchString(value) {
		formatted := value + "-01-01"
		return &formatted, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnparseableDate, value)
}

// parseFreeText accepts the many layouts dateparse recognizes. Strings
// without a single digit are rejected up front since they cannot carry
// a year, day or timestamp.
func parseFreeText(value string) (time.Time, error) {
	if !strings.ContainsAny(value, "0123456789") {
		return time.Time{}, fmt.Errorf("%w: no digits in %q", ErrUnparseableDate, value)
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() == 0 {
		t = time.Date(anchorYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t, nil
}

// parseMonthYear matches "Sept 1999", "March 2001" and "5 March 2001"
// against the month table, so abbreviations Go layouts lack still parse.
func parseMonthYear(value string) (time.Time, bool) {
	m := monthYearPattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthNames[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])
	day := 1
	if m[1] != "" {
		day, _ = strconv.Atoi(m[1])
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// parseShortYear reads "99" as a year on January 1st. Values that could
// be a day of the month are left alone. The century is chosen so the
// year falls less than 50 years after currentYear.
func parseShortYear(value string, currentYear int) (time.Time, bool) {
	if !shortYearPattern.MatchString(value) {
		return time.Time{}, false
	}
	n, _ := strconv.Atoi(value)
	if n <= 31 {
		return time.Time{}, false
	}
	year := currentYear/100*100 + n
	if year >= currentYear+50 {
		year -= 100
	} else if year < currentYear-50 {
		year += 100
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
}

func formatDate(t time.Time) *string {
	s := t.Format(dateLayout)
	return &s
}
