package services

import (
	"regexp"
	"strings"
	"time"
)

var displayDatePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// OnlyDigits strips every non-digit rune.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCPF progressively formats up to 11 digits as 000.000.000-00.
// Partial input yields a partial mask; check digits are not verified.
func FormatCPF(s string) string {
	d := OnlyDigits(s)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// FormatPhone progressively formats a Brazilian number: (00) 00000-0000 for mobiles,
// (00) 0000-0000 for ten-digit landlines.
func FormatPhone(s string) string {
	d := OnlyDigits(s)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) == 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// FormatDateInput masks typed digits as DD/MM/YYYY.
func FormatDateInput(s string) string {
	d := OnlyDigits(s)
	if len(d) > 8 {
		d = d[:8]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 4:
		return d[:2] + "/" + d[2:]
	default:
		return d[:2] + "/" + d[2:4] + "/" + d[4:]
	}
}

// ConvertDisplayDate turns DD/MM/YYYY into YYYY-MM-DD. It reports false for anything
// that does not match the pattern or is not a real calendar date.
func ConvertDisplayDate(s string) (string, bool) {
	m := displayDatePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	iso := m[3] + "-" + m[2] + "-" + m[1]
	if _, err := time.Parse("2006-01-02", iso); err != nil {
		return "", false
	}
	return iso, true
}

// ParseVisitDate accepts the picker's YYYY-MM-DD value, or DD/MM/YYYY.
func ParseVisitDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if iso, ok := ConvertDisplayDate(s); ok {
		s = iso
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayDate renders YYYY-MM-DD as DD/MM/YYYY, returning the input unchanged otherwise.
func DisplayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
