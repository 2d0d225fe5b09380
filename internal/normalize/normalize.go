// Package normalize converts statement tokens into exact amounts and dates.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "statement-extractor/pkg/errors"
)

var amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

// ParseAmount converts a token such as "1,234.56" into an exact decimal.
// Signs, currency symbols and other precisions are rejected.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if !amountPattern.MatchString(cleaned) {
		return decimal.Zero, apperrors.InvalidAmountError(text)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, apperrors.InvalidAmountError(text)
	}
	return amount, nil
}

// NewDate returns the UTC date for year/month/day, rejecting triples that
// do not name a real calendar day.
func NewDate(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, apperrors.InvalidDateError(formatTriple(year, month, day))
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, apperrors.InvalidDateError(formatTriple(year, month, day))
	}
	return d, nil
}

// ParseMonthDay resolves an "MM/DD" token against the statement year
func ParseMonthDay(text string, year int) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 2 {
		return time.Time{}, apperrors.InvalidDateError(text)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, apperrors.InvalidDateError(text)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, apperrors.InvalidDateError(text)
	}

	d, err := NewDate(year, month, day)
	if err != nil {
		return time.Time{}, apperrors.InvalidDateError(text)
	}
	return d, nil
}

// ParseFullDate parses an "MM/DD/YYYY" token
func ParseFullDate(text string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 3 {
		return time.Time{}, apperrors.InvalidDateError(text)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, apperrors.InvalidDateError(text)
		}
		nums[i] = n
	}

	return NewDate(nums[2], nums[0], nums[1])
}

func formatTriple(year, month, day int) string {
	return strconv.Itoa(month) + "/" + strconv.Itoa(day) + "/" + strconv.Itoa(year)
}
