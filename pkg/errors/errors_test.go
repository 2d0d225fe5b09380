package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestExtractorError(t *testing.T) {
	tests := []struct {
		name       string
		category   ErrorCategory
		code       ErrorCode
		message    string
		cause      error
		expectCode int
	}{
		{
			name:       "file error",
			category:   CategoryFile,
			code:       CodeFileNotFound,
			message:    "file not found",
			cause:      errors.New("no such file"),
			expectCode: 2,
		},
		{
			name:       "parse error",
			category:   CategoryParse,
			code:       CodeInvalidFormat,
			message:    "invalid format",
			expectCode: 3,
		},
		{
			name:       "extraction error",
			category:   CategoryExtraction,
			code:       CodeUnsupportedLayout,
			message:    "layout not supported",
			expectCode: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err *ExtractorError
			if tt.cause != nil {
				err = Wrap(tt.cause, tt.category, tt.code, tt.message)
			} else {
				err = New(tt.category, tt.code, tt.message)
			}

			if err.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category)
			}
			if err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, err.Code)
			}
			if err.GetExitCode() != tt.expectCode {
				t.Errorf("expected exit code %d, got %d", tt.expectCode, err.GetExitCode())
			}
			if err.Error() != tt.message {
				t.Errorf("expected error string %s, got %s", tt.message, err.Error())
			}
			if tt.cause != nil && err.Unwrap() != tt.cause {
				t.Errorf("expected to unwrap to %v, got %v", tt.cause, err.Unwrap())
			}
			if len(err.StackTrace) == 0 {
				t.Error("expected stack trace to be captured")
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, CategoryFile, CodeFileNotFound, "x") != nil {
		t.Error("expected Wrap(nil) to return nil")
	}
}

func TestExtractorErrorWithContext(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "test error").
		WithContext("file", "/path/to/statement.pdf").
		WithContext("page", 3).
		WithSuggestion("check file path")

	if err.Context["file"] != "/path/to/statement.pdf" {
		t.Errorf("unexpected file context %v", err.Context["file"])
	}
	if err.Context["page"] != 3 {
		t.Errorf("unexpected page context %v", err.Context["page"])
	}

	expected := "test error (suggestion: check file path)"
	if err.Error() != expected {
		t.Errorf("expected error string '%s', got '%s'", expected, err.Error())
	}
}

func TestSpecificErrorConstructors(t *testing.T) {
	t.Run("FileError", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := FileError(CodeFilePermission, "/tmp/statement.pdf", cause)

		if err.Category != CategoryFile {
			t.Errorf("expected file category, got %s", err.Category)
		}
		if err.Context["file_path"] != "/tmp/statement.pdf" {
			t.Errorf("expected file_path context, got %v", err.Context["file_path"])
		}
		if err.Suggestion == "" {
			t.Error("expected suggestion to be set")
		}
		if err.Cause != cause {
			t.Errorf("expected cause to be %v, got %v", cause, err.Cause)
		}
	})

	t.Run("ExtractionError", func(t *testing.T) {
		err := ExtractionError(CodeNoPages, "scan.pdf", nil)

		if err.Category != CategoryExtraction {
			t.Errorf("expected extraction category, got %s", err.Category)
		}
		if err.Context["source"] != "scan.pdf" {
			t.Errorf("expected source context, got %v", err.Context["source"])
		}
		if !strings.Contains(err.Message, "scan.pdf") {
			t.Errorf("expected message to name the source, got %s", err.Message)
		}
	})

	t.Run("OutputError", func(t *testing.T) {
		err := OutputError(CodeUnsupportedFormat, "pdf", nil)

		if err.Category != CategoryOutput {
			t.Errorf("expected output category, got %s", err.Category)
		}
		if err.GetExitCode() != 6 {
			t.Errorf("expected exit code 6, got %d", err.GetExitCode())
		}
	})

	t.Run("ValidationError", func(t *testing.T) {
		err := ValidationError(CodeInvalidAmount, "amount", "-1.00", nil)

		if err.Category != CategoryValidation {
			t.Errorf("expected validation category, got %s", err.Category)
		}
		if err.Context["field"] != "amount" {
			t.Errorf("expected field context, got %v", err.Context["field"])
		}
	})
}

func TestErrorSummary(t *testing.T) {
	errs := []*ExtractorError{
		New(CategoryFile, CodeFileNotFound, "error 1"),
		New(CategoryFile, CodeFilePermission, "error 2"),
		New(CategoryExtraction, CodeUnsupportedLayout, "error 3"),
	}

	summary := NewErrorSummary(errs)

	if summary.Total != 3 {
		t.Errorf("expected total 3, got %d", summary.Total)
	}
	if summary.ByCategory[CategoryFile] != 2 {
		t.Errorf("expected 2 file errors, got %d", summary.ByCategory[CategoryFile])
	}
	if !summary.HasCode(CodeUnsupportedLayout) {
		t.Error("expected unsupported layout code")
	}
	if summary.ByCategory[CategoryOutput] != 0 {
		t.Error("expected no output errors")
	}
	if summary.GetExitCode() != 5 {
		t.Errorf("expected exit code 5, got %d", summary.GetExitCode())
	}
	if summary.Error() != "3 errors occurred (extraction: 1, file: 2)" {
		t.Errorf("unexpected summary string %q", summary.Error())
	}
}

func TestEmptyErrorSummary(t *testing.T) {
	summary := NewErrorSummary(nil)

	if summary.Total != 0 {
		t.Errorf("expected total 0, got %d", summary.Total)
	}
	if summary.Error() != "no errors" {
		t.Errorf("expected 'no errors', got '%s'", summary.Error())
	}
	if summary.GetExitCode() != 0 {
		t.Errorf("expected exit code 0, got %d", summary.GetExitCode())
	}
}

func TestAsExtractorError(t *testing.T) {
	extractorErr := New(CategoryFile, CodeFileNotFound, "test")
	wrapped := fmt.Errorf("outer: %w", extractorErr)

	if extracted, ok := AsExtractorError(wrapped); !ok || extracted != extractorErr {
		t.Error("expected AsExtractorError to find wrapped ExtractorError")
	}
	if _, ok := AsExtractorError(errors.New("generic")); ok {
		t.Error("expected AsExtractorError to return false for generic error")
	}
	if _, ok := AsExtractorError(nil); ok {
		t.Error("expected AsExtractorError to return false for nil")
	}
}

func TestWrapIfNeeded(t *testing.T) {
	extractorErr := New(CategoryFile, CodeFileNotFound, "test")
	genericErr := errors.New("generic error")

	if WrapIfNeeded(extractorErr, CategoryParse, CodeInvalidFormat, "wrapped") != extractorErr {
		t.Error("expected WrapIfNeeded to return original ExtractorError")
	}

	result := WrapIfNeeded(genericErr, CategoryInternal, CodeUnexpectedError, "wrapped")
	if result.Cause != genericErr || result.Category != CategoryInternal {
		t.Error("expected WrapIfNeeded to wrap generic error")
	}

	if WrapIfNeeded(nil, CategoryParse, CodeInvalidFormat, "wrapped") != nil {
		t.Error("expected WrapIfNeeded to return nil for nil input")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		category     ErrorCategory
		expectedCode int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryExtraction, 5},
		{CategoryOutput, 6},
		{CategoryInternal, 7},
		{ErrorCategory("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := New(tt.category, "test_code", "test message")
			if err.GetExitCode() != tt.expectedCode {
				t.Errorf("expected exit code %d for category %s, got %d",
					tt.expectedCode, tt.category, err.GetExitCode())
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	err := InvalidAmountError("12.3")

	if err.Category != CategoryParse || err.Code != CodeInvalidAmount {
		t.Errorf("unexpected category/code %s/%s", err.Category, err.Code)
	}
	if !IsFormatError(err) {
		t.Error("expected IsFormatError to be true")
	}
	if !IsFormatError(fmt.Errorf("line 4: %w", err)) {
		t.Error("expected IsFormatError to see through wrapping")
	}
	if IsFormatError(errors.New("other")) {
		t.Error("expected IsFormatError to be false for generic error")
	}
	if !strings.Contains(err.Error(), `"12.3"`) {
		t.Errorf("expected value in message, got %s", err.Error())
	}
	if !strings.Contains(err.GetDetailedError(), "1,250.50") {
		t.Errorf("expected examples in detailed error, got %s", err.GetDetailedError())
	}
}

func TestFormatErrorCollector(t *testing.T) {
	collector := NewFormatErrorCollector(2)
	collector.Add(nil)
	collector.Add(InvalidAmountError("x"))
	collector.Add(InvalidDateError("02/30"))
	collector.Add(InvalidDateError("13/01"))

	if collector.Count() != 3 {
		t.Errorf("expected count 3, got %d", collector.Count())
	}
	if len(collector.Errors()) != 2 {
		t.Errorf("expected 2 retained errors, got %d", len(collector.Errors()))
	}
	if !collector.HasErrors() {
		t.Error("expected HasErrors")
	}

	summary := collector.Summary()
	if summary.ByCode[CodeInvalidDate] != 1 || summary.ByCode[CodeInvalidAmount] != 1 {
		t.Errorf("unexpected summary codes %v", summary.ByCode)
	}
}
