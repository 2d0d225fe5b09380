package extractor

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

// FileResult is the outcome for one file of a batch. Exactly one of Result
// and Err is set.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// BatchResult holds per-file outcomes in input order
type BatchResult struct {
	Files []FileResult
	Stats logger.ProgressStats
}

// Succeeded returns the successful results in input order
func (b *BatchResult) Succeeded() []*Result {
	var out []*Result
	for _, f := range b.Files {
		if f.Err == nil {
			out = append(out, f.Result)
		}
	}
	return out
}

// Err combines every per-file error, or returns nil when all succeeded
func (b *BatchResult) Err() error {
	var combined error
	for _, f := range b.Files {
		combined = multierr.Append(combined, f.Err)
	}
	return combined
}

// Summary groups the per-file failures by category for reporting and exit
// codes. It returns nil when all files succeeded.
func (b *BatchResult) Summary() *apperrors.ErrorSummary {
	var errs []*apperrors.ExtractorError
	for _, err := range multierr.Errors(b.Err()) {
		errs = append(errs, apperrors.WrapIfNeeded(err, apperrors.CategoryInternal, apperrors.CodeUnexpectedError, "extraction failed"))
	}
	if len(errs) == 0 {
		return nil
	}
	return apperrors.NewErrorSummary(errs)
}

// ExtractFiles extracts independent files on a bounded pool. A failing file
// does not stop the others. maxConcurrency <= 0 uses the configured limit.
func (s *Service) ExtractFiles(ctx context.Context, paths []string, maxConcurrency int) *BatchResult {
	if maxConcurrency <= 0 {
		maxConcurrency = s.config.MaxConcurrency
	}

	batch := &BatchResult{Files: make([]FileResult, len(paths))}
	tracker := logger.NewProgressTracker("extract", len(paths), s.logger)

	p := pool.New().WithMaxGoroutines(maxConcurrency)
	for i, path := range paths {
		i, path := i, path
		p.Go(func() {
			result, err := s.ExtractFile(ctx, path)
			batch.Files[i] = FileResult{Path: path, Result: result, Err: err}
			tracker.Done(path, err)
		})
	}
	p.Wait()

	batch.Stats = tracker.Complete()
	return batch
}
