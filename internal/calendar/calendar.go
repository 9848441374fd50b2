// Package calendar computes day bounds for a (year, month) pair so the
// birthdate day selector can be repopulated whenever year or month changes.
// The proleptic Gregorian rule is applied for all years, past or future.
package calendar

import "errors"

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// daysByMonth holds the non-leap day count per month (1-indexed).
var daysByMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [13]string{"",
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// IsLeapYear reports whether year has a February 29th under the proleptic
// Gregorian rule: divisible by 4, except centurial years not divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the given
// year (28-31). Returns ErrInvalidMonth when month is outside [1,12]; year
// is unrestricted.
func DaysInMonth(year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, ErrInvalidMonth
	}
	if month == 2 && IsLeapYear(year) {
		return 29, nil
	}
	return daysByMonth[month], nil
}

// DayValues returns the ordered sequence 1..DaysInMonth(year, month), the
// exact value set a dependent day dropdown should be populated with.
func DayValues(year, month int) ([]int, error) {
	n, err := DaysInMonth(year, month)
	if err != nil {
		return nil, err
	}
	days := make([]int, n)
	for i := range days {
		days[i] = i + 1
	}
	return days, nil
}

// ClampDay forces a previously selected day into [1, DaysInMonth]. Callers
// switching from e.g. March 31st to April must land on April 30th, not an
// invalid date.
func ClampDay(year, month, day int) (int, error) {
	n, err := DaysInMonth(year, month)
	if err != nil {
		return 0, err
	}
	if day < 1 {
		return 1, nil
	}
	if day > n {
		return n, nil
	}
	return day, nil
}

// ValidDay reports whether day is a real calendar day in the given month.
func ValidDay(year, month, day int) bool {
	n, err := DaysInMonth(year, month)
	if err != nil {
		return false
	}
	return day >= 1 && day <= n
}

// MonthName returns the English month name, or "" for an invalid month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}
