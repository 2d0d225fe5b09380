package reporter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"statement-extractor/internal/lender"
	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

// WriteFiles renders ts in every configured file format and writes
// <dir>/<stem>.<ext> through fs. Console output is skipped. It returns the
// paths written, in format order.
func (rg *ReportGenerator) WriteFiles(fs afero.Fs, dir, stem string, ts *lender.TaggedStatement) ([]string, error) {
	if err := validateInputs(ts, io.Discard); err != nil {
		return nil, err
	}
	if strings.TrimSpace(stem) == "" {
		return nil, apperrors.ValidationError(apperrors.CodeMissingField, "stem", stem, nil)
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.FileError(apperrors.CodeDirectoryError, dir, err)
	}

	var written []string
	for _, format := range rg.config.Formats {
		if format == FormatConsole {
			continue
		}

		path := filepath.Join(dir, stem+"."+format.Extension())
		if err := rg.writeFile(fs, path, format, ts); err != nil {
			rg.logger.WithError(err).WithField("path", path).Error("Failed to write output file")
			return written, err
		}

		rg.logger.WithFields(logger.Fields{
			"path":   path,
			"format": format,
		}).Info("Wrote output file")
		written = append(written, path)
	}

	return written, nil
}

// writeFile renders into memory first so a failed render never leaves a
// partial file behind
func (rg *ReportGenerator) writeFile(fs afero.Fs, path string, format OutputFormat, ts *lender.TaggedStatement) error {
	var buf bytes.Buffer
	if err := rg.Generate(ts, format, &buf); err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		if os.IsPermission(err) {
			return apperrors.FileError(apperrors.CodeFilePermission, path, err)
		}
		if isSpaceError(err) {
			return apperrors.OutputError(apperrors.CodeWriteFailed, path, err).
				WithSuggestion("free up disk space and try again")
		}
		return apperrors.OutputError(apperrors.CodeWriteFailed, path, err)
	}
	return nil
}

// OutputStem derives the output file name stem from an input path,
// e.g. "statements/oct.pdf" becomes "oct"
func OutputStem(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "statement"
	}
	return stem
}

// validateInputs validates the inputs for report generation
func validateInputs(ts *lender.TaggedStatement, writer io.Writer) error {
	if ts == nil || ts.Statement == nil {
		return apperrors.ValidationError(
			apperrors.CodeMissingField,
			"statement",
			nil,
			nil,
		).WithSuggestion("Provide an extracted statement")
	}

	if writer == nil {
		return apperrors.ValidationError(
			apperrors.CodeMissingField,
			"writer",
			nil,
			nil,
		).WithSuggestion("Provide a valid output writer")
	}

	return nil
}

// wrapGenerationError wraps generation errors with context
func wrapGenerationError(err error, format string) error {
	if appErr, ok := apperrors.AsExtractorError(err); ok {
		return appErr
	}

	return apperrors.OutputError(
		apperrors.CodeWriteFailed,
		format+" report",
		err,
	).WithSuggestion("Check the output destination and report format settings")
}

func isSpaceError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no space left") ||
		strings.Contains(msg, "disk full") ||
		strings.Contains(msg, "device full")
}
