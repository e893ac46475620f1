package utils

import "time"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DateOf truncates t to midnight of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsAfterDay reports whether a falls on a later UTC calendar day than b.
func IsAfterDay(a, b time.Time) bool {
	return DateOf(a).After(DateOf(b))
}
