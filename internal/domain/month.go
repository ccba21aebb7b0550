// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"time"
)

// YearMonth identifies one calendar month. It is the canonical bucket key:
// identity is the (year, month) integer pair, never a formatted label, so
// sorting and lookup are independent of display formatting.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the YearMonth containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Prev returns the month immediately before ym, rolling over year boundaries.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Next returns the month immediately after ym, rolling over year boundaries.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Before reports whether ym is chronologically earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Label returns the human-readable form used for display, e.g. "May 2024".
func (ym YearMonth) Label() string {
	return fmt.Sprintf("%s %d", ym.Month.String(), ym.Year)
}

// String returns the canonical form, e.g. "2024-05".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalJSON encodes the canonical "YYYY-MM" form.
func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", ym.String())), nil
}

// UnmarshalJSON decodes the canonical "YYYY-MM" form.
func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var year, month int
	if _, err := fmt.Sscanf(string(data), `"%4d-%2d"`, &year, &month); err != nil {
		return fmt.Errorf("invalid year-month %s: %w", data, err)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month in year-month %s", data)
	}
	ym.Year = year
	ym.Month = time.Month(month)
	return nil
}

// TrailingWindow returns the n consecutive months ending at the month
// containing anchor, in chronological order. The arithmetic works on
// (year, month) pairs directly so short months cannot skew the walk.
func TrailingWindow(anchor time.Time, n int) []YearMonth {
	months := make([]YearMonth, n)
	ym := YearMonthOf(anchor)
	for i := n - 1; i >= 0; i-- {
		months[i] = ym
		ym = ym.Prev()
	}
	return months
}
