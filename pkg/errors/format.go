package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FormatError reports a single token that could not be converted, such as an
// amount or a month/day pair. Callers absorb it at the line level.
type FormatError struct {
	*ExtractorError
	Field    string   `json:"field"`
	Value    string   `json:"value"`
	Expected string   `json:"expected,omitempty"`
	Examples []string `json:"examples,omitempty"`
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q (expected %s)", e.Message, e.Value, e.Expected)
}

// GetDetailedError returns a multi-line description of the failure
func (e *FormatError) GetDetailedError() string {
	lines := []string{
		fmt.Sprintf("ERROR: %s", e.Message),
		fmt.Sprintf("  → Field: %s", e.Field),
		fmt.Sprintf("  → Value: '%s'", e.Value),
	}
	if e.Expected != "" {
		lines = append(lines, fmt.Sprintf("  → Expected: %s", e.Expected))
	}
	if len(e.Examples) > 0 {
		lines = append(lines, "  → Examples:")
		for _, example := range e.Examples {
			lines = append(lines, fmt.Sprintf("    • %s", example))
		}
	}
	return strings.Join(lines, "\n")
}

// NewFormatError creates a token-level format error
func NewFormatError(code ErrorCode, field, value, expected string) *FormatError {
	base := New(CategoryParse, code, fmt.Sprintf("invalid %s", field)).
		WithContext("field", field).
		WithContext("value", value)

	return &FormatError{
		ExtractorError: base,
		Field:          field,
		Value:          value,
		Expected:       expected,
	}
}

// WithExamples attaches valid sample values
func (e *FormatError) WithExamples(examples ...string) *FormatError {
	e.Examples = examples
	return e
}

// InvalidAmountError reports an amount token that is not a plain two-decimal number
func InvalidAmountError(value string) *FormatError {
	return NewFormatError(CodeInvalidAmount, "amount", value, "digits with two decimal places").
		WithExamples("12.34", "1,250.50")
}

// InvalidDateError reports a month/day token that is not a calendar date
func InvalidDateError(value string) *FormatError {
	return NewFormatError(CodeInvalidDate, "date", value, "MM/DD calendar date").
		WithExamples("01/15", "12/31")
}

// AsFormatError extracts a FormatError from an error chain
func AsFormatError(err error) (*FormatError, bool) {
	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		return formatErr, true
	}
	return nil, false
}

// IsFormatError reports whether err is a token-level format error
func IsFormatError(err error) bool {
	_, ok := AsFormatError(err)
	return ok
}

// FormatErrorCollector keeps absorbed format errors for diagnostics
type FormatErrorCollector struct {
	errors    []*FormatError
	maxErrors int
	dropped   int
}

// NewFormatErrorCollector creates a collector retaining at most maxErrors entries
func NewFormatErrorCollector(maxErrors int) *FormatErrorCollector {
	return &FormatErrorCollector{maxErrors: maxErrors}
}

// Add records err. Errors past the limit are only counted.
func (c *FormatErrorCollector) Add(err *FormatError) {
	if err == nil {
		return
	}
	if c.maxErrors > 0 && len(c.errors) >= c.maxErrors {
		c.dropped++
		return
	}
	c.errors = append(c.errors, err)
}

// Count returns the number of errors seen, including dropped ones
func (c *FormatErrorCollector) Count() int {
	return len(c.errors) + c.dropped
}

func (c *FormatErrorCollector) HasErrors() bool {
	return c.Count() > 0
}

// Errors returns the retained errors
func (c *FormatErrorCollector) Errors() []*FormatError {
	return c.errors
}

// Summary converts the retained errors into an ErrorSummary
func (c *FormatErrorCollector) Summary() *ErrorSummary {
	base := make([]*ExtractorError, len(c.errors))
	for i, err := range c.errors {
		base[i] = err.ExtractorError
	}
	return NewErrorSummary(base)
}
