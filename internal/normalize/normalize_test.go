package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "statement-extractor/pkg/errors"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"123.45", "123.45", false},
		{"1,234.56", "1234.56", false},
		{" 12,345,678.90 ", "12345678.90", false},
		{"0.00", "0", false},
		{"12.3", "", true},
		{"12", "", true},
		{"-5.00", "", true},
		{"$5.00", "", true},
		{"1.234", "", true},
		{"", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsFormatError(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
			assert.False(t, got.IsNegative())
		})
	}
}

func TestParseMonthDay(t *testing.T) {
	tests := []struct {
		input   string
		year    int
		want    time.Time
		wantErr bool
	}{
		{"03/15", 2025, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"12/31", 2024, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"02/29", 2024, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"02/29", 2025, time.Time{}, true},
		{"02/30", 2025, time.Time{}, true},
		{"13/01", 2025, time.Time{}, true},
		{"00/10", 2025, time.Time{}, true},
		{"3-15", 2025, time.Time{}, true},
		{"aa/bb", 2025, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMonthDay(tt.input, tt.year)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsFormatError(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseFullDate(t *testing.T) {
	got, err := ParseFullDate("02/28/2025")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseFullDate("02/31/2025")
	assert.Error(t, err)

	_, err = ParseFullDate("02/2025")
	assert.Error(t, err)
}
