package leave

import "time"

// Date construction and calendar helpers. All leave accounting is
// day-granular in UTC.

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// dayOf truncates a timestamp to UTC midnight.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfYear(year int) time.Time { return Date(year, time.January, 1) }
func endOfYear(year int) time.Time   { return Date(year, time.December, 31) }

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

// daysThroughYearEnd counts days from t through December 31, inclusive.
func daysThroughYearEnd(t time.Time) int {
	return int(endOfYear(t.Year()).Sub(dayOf(t)).Hours()/24) + 1
}
