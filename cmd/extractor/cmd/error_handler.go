package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"syscall"

	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

// CLIErrorHandler prints user-friendly errors and picks the exit code
type CLIErrorHandler struct {
	logger logger.Logger
	out    io.Writer
}

// NewCLIErrorHandler creates a handler that writes to out
func NewCLIErrorHandler(out io.Writer) *CLIErrorHandler {
	return &CLIErrorHandler{
		logger: logger.GetGlobalLogger().WithComponent("cli"),
		out:    out,
	}
}

// HandleError prints err and returns the process exit code, 0 for nil
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Debug("Command failed")

	var summary *apperrors.ErrorSummary
	if errors.As(err, &summary) {
		return h.handleSummary(summary)
	}

	if extractorErr, ok := apperrors.AsExtractorError(err); ok {
		return h.handleExtractorError(extractorErr)
	}

	return h.handleGenericError(err)
}

// handleSummary reports every failed file of a batch
func (h *CLIErrorHandler) handleSummary(summary *apperrors.ErrorSummary) int {
	if summary.Total == 1 {
		return h.handleExtractorError(summary.Errors[0])
	}

	fmt.Fprintf(h.out, "Error: %s\n", summary.Error())
	for _, err := range summary.Errors {
		fmt.Fprintf(h.out, "  - %s\n", err.Message)
	}

	var categories []string
	for category := range summary.ByCategory {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(h.out, "\n%s\n", getCategoryHelp(apperrors.ErrorCategory(category)))
	}

	return summary.GetExitCode()
}

// handleExtractorError prints the message, context and suggestion
func (h *CLIErrorHandler) handleExtractorError(err *apperrors.ExtractorError) int {
	fmt.Fprintf(h.out, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		keys := make([]string, 0, len(err.Context))
		for key := range err.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintf(h.out, "\nContext:\n")
		for _, key := range keys {
			fmt.Fprintf(h.out, "  %s: %v\n", key, err.Context[key])
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(h.out, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(h.out, "\n%s\n", getCategoryHelp(err.Category))

	if err.Cause != nil {
		fmt.Fprintf(h.out, "\nUnderlying error: %v\n", err.Cause)
	}

	return err.GetExitCode()
}

// handleGenericError handles errors from outside the application, such as
// cobra argument errors
func (h *CLIErrorHandler) handleGenericError(err error) int {
	switch {
	case isFileNotFoundError(err):
		fmt.Fprintf(h.out, "Error: File not found\n")
		fmt.Fprintf(h.out, "Suggestion: Check if the file path is correct and the file exists\n")
		return 2
	case isPermissionError(err):
		fmt.Fprintf(h.out, "Error: Permission denied\n")
		fmt.Fprintf(h.out, "Suggestion: Check file permissions and ensure you have read access\n")
		return 2
	case isDiskFullError(err):
		fmt.Fprintf(h.out, "Error: Insufficient disk space\n")
		fmt.Fprintf(h.out, "Suggestion: Free up disk space and try again\n")
		return 6
	}

	fmt.Fprintf(h.out, "Error: %v\n", err)
	fmt.Fprintf(h.out, "Run 'extractor --help' for usage.\n")
	return 1
}

// getCategoryHelp returns category-specific help text
func getCategoryHelp(category apperrors.ErrorCategory) string {
	switch category {
	case apperrors.CategoryFile:
		return `File error help:
• Check that the PDF exists and is readable
• Verify the file path is correct (use absolute paths if needed)
• Make sure the document is a text-based PDF, not a scan`

	case apperrors.CategoryExtraction:
		return `Extraction error help:
• Run 'extractor info <pdf>' to see whether the layout is recognized
• Only Truist statements are supported
• Scanned statements without a text layer cannot be read`

	case apperrors.CategoryParse, apperrors.CategoryValidation:
		return `Data error help:
• Check the input values named above
• Dates use YYYY-MM-DD and amounts are plain decimal numbers`

	case apperrors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and STMTX_ environment variables
• Verify configuration file syntax if using --config
• Verify the keywords file is valid JSON if using --keywords
• Use 'extractor extract --help' to see all available options`

	case apperrors.CategoryOutput:
		return `Output error help:
• Check that the output directory is writable
• Supported formats are csv, json, xlsx and console`

	default:
		return `For more help:
• Use 'extractor --help' for general help
• Run with --verbose for detailed logs`
	}
}

func isFileNotFoundError(err error) bool {
	return errors.Is(err, os.ErrNotExist) || strings.Contains(err.Error(), "no such file or directory")
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) ||
		strings.Contains(err.Error(), "permission denied") ||
		strings.Contains(err.Error(), "access denied")
}

func isDiskFullError(err error) bool {
	if errors.Is(err, syscall.ENOSPC) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no space left") ||
		strings.Contains(msg, "disk full") ||
		strings.Contains(msg, "device full")
}
