package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysInMonth_FixedLengthMonths(t *testing.T) {
	years := []int{-400, -1, 0, 1, 1900, 1999, 2000, 2023, 2024, 9999}

	for _, y := range years {
		for _, m := range []int{1, 3, 5, 7, 8, 10, 12} {
			n, err := DaysInMonth(y, m)
			require.NoError(t, err)
			assert.Equal(t, 31, n, "year %d month %d", y, m)
		}
		for _, m := range []int{4, 6, 9, 11} {
			n, err := DaysInMonth(y, m)
			require.NoError(t, err)
			assert.Equal(t, 30, n, "year %d month %d", y, m)
		}
	}
}

func TestDaysInMonth_February(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2000, 29}, // divisible by 400
		{1900, 28}, // centurial, not divisible by 400
		{2024, 29},
		{2023, 28},
		{1600, 29},
		{2100, 28},
		{-4, 29}, // proleptic rule applies to all years
		{0, 29},
	}
	for _, tt := range tests {
		n, err := DaysInMonth(tt.year, 2)
		require.NoError(t, err)
		assert.Equal(t, tt.want, n, "February %d", tt.year)
	}
}

func TestDaysInMonth_FebruaryMatchesLeapRule(t *testing.T) {
	for y := 1800; y <= 2200; y++ {
		n, err := DaysInMonth(y, 2)
		require.NoError(t, err)
		if IsLeapYear(y) {
			assert.Equal(t, 29, n, "year %d", y)
		} else {
			assert.Equal(t, 28, n, "year %d", y)
		}
	}
}

func TestDaysInMonth_InvalidMonth(t *testing.T) {
	for _, m := range []int{0, 13, -1, 100} {
		_, err := DaysInMonth(2023, m)
		assert.ErrorIs(t, err, ErrInvalidMonth, "month %d", m)
	}
}

func TestDaysInMonth_ConcreteCases(t *testing.T) {
	n, err := DaysInMonth(2023, 4)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	_, err = DaysInMonth(2023, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestDaysInMonth_Idempotent(t *testing.T) {
	first, err := DaysInMonth(2024, 2)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		n, err := DaysInMonth(2024, 2)
		require.NoError(t, err)
		assert.Equal(t, first, n)
	}
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2000))
	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(1996))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2023))
	assert.False(t, IsLeapYear(2100))
}

func TestDayValues(t *testing.T) {
	days, err := DayValues(2024, 2)
	require.NoError(t, err)
	require.Len(t, days, 29)
	assert.Equal(t, 1, days[0])
	assert.Equal(t, 29, days[28])
	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1]+1, days[i], "values must be the ordered sequence 1..n")
	}

	_, err = DayValues(2024, 0)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestClampDay(t *testing.T) {
	// March 31st selection carried into April clamps to the 30th.
	d, err := ClampDay(2023, 4, 31)
	require.NoError(t, err)
	assert.Equal(t, 30, d)

	// January 29th carried into a non-leap February clamps to the 28th.
	d, err = ClampDay(2023, 2, 29)
	require.NoError(t, err)
	assert.Equal(t, 28, d)

	// A leap February keeps the 29th.
	d, err = ClampDay(2024, 2, 29)
	require.NoError(t, err)
	assert.Equal(t, 29, d)

	// In-range days pass through unchanged.
	d, err = ClampDay(2023, 7, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, d)

	d, err = ClampDay(2023, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, d)

	_, err = ClampDay(2023, 13, 1)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestValidDay(t *testing.T) {
	assert.True(t, ValidDay(2024, 2, 29))
	assert.False(t, ValidDay(2023, 2, 29))
	assert.False(t, ValidDay(2023, 4, 31))
	assert.False(t, ValidDay(2023, 1, 0))
	assert.False(t, ValidDay(2023, 13, 1))
	assert.True(t, ValidDay(2023, 12, 31))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "", MonthName(13))
}
