// Package extractor turns statement documents into structured statements.
//
// It owns everything around the layout engines: reading PDF page text,
// choosing a layout from the registry, timing and logging each run, and
// extracting several files at once on a bounded worker pool.
//
// Example usage:
//
//	service, err := extractor.NewService(extractor.DefaultRegistry(nil), nil)
//	if err != nil {
//		return err
//	}
//	result, err := service.ExtractFile(ctx, "statement.pdf")
package extractor

import (
	"context"
	"strings"
	"time"

	"statement-extractor/internal/layouts"
	"statement-extractor/internal/layouts/truist"
	"statement-extractor/internal/models"
	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

// Config holds options for the extraction service
type Config struct {
	// MaxConcurrency bounds the number of files extracted at once
	MaxConcurrency int
	// Clock is passed to layouts that default the statement year
	Clock func() time.Time
}

// DefaultConfig returns the default service configuration
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency: 4,
		Clock:          time.Now,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MaxConcurrency <= 0 {
		return apperrors.ConfigurationError(apperrors.CodeInvalidConfig, "max_concurrency", c.MaxConcurrency, nil)
	}
	return nil
}

// DefaultRegistry returns a registry with every supported layout
func DefaultRegistry(cfg *Config) *layouts.Registry {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := []truist.Option{}
	if cfg.Clock != nil {
		opts = append(opts, truist.WithClock(cfg.Clock))
	}
	return layouts.NewRegistry(truist.New(opts...))
}

// Result is the outcome of extracting one document
type Result struct {
	Source    string            `json:"source"`
	Layout    string            `json:"layout"`
	Pages     int               `json:"pages"`
	Statement *models.Statement `json:"statement"`
	Duration  time.Duration     `json:"duration"`
}

// Service extracts statements from documents
type Service struct {
	registry *layouts.Registry
	config   *Config
	logger   logger.Logger
}

// NewService creates a service over registry. A nil config uses defaults.
func NewService(registry *layouts.Registry, config *Config) (*Service, error) {
	if registry == nil {
		return nil, apperrors.ValidationError(apperrors.CodeMissingField, "registry", nil, nil).
			WithSuggestion("provide a layout registry, e.g. extractor.DefaultRegistry")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		registry: registry,
		config:   config,
		logger:   logger.GetGlobalLogger().WithComponent("extractor"),
	}, nil
}

// WithLogger replaces the service logger
func (s *Service) WithLogger(l logger.Logger) *Service {
	s.logger = l.WithComponent("extractor")
	return s
}

// Config returns the service configuration
func (s *Service) Config() *Config {
	return s.config
}

// Layouts returns the registered layout names
func (s *Service) Layouts() []string {
	return s.registry.Names()
}

// ExtractFile extracts the statement from the PDF at path
func (s *Service) ExtractFile(ctx context.Context, path string) (*Result, error) {
	if err := checkContext(ctx, path); err != nil {
		return nil, err
	}

	var result *Result
	err := WithDocument(path, func(doc *Document) error {
		pages, err := doc.Pages()
		if err != nil {
			return err
		}
		result, err = s.ExtractPages(ctx, path, pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExtractDocument extracts the statement from an in-memory PDF
func (s *Service) ExtractDocument(ctx context.Context, source string, data []byte) (*Result, error) {
	if err := checkContext(ctx, source); err != nil {
		return nil, err
	}

	doc, err := ReadDocument(data, source)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pages, err := doc.Pages()
	if err != nil {
		return nil, err
	}
	return s.ExtractPages(ctx, source, pages)
}

// ExtractPages runs layout detection and parsing over already extracted
// page texts. source names the document in logs and errors.
func (s *Service) ExtractPages(ctx context.Context, source string, pages []string) (*Result, error) {
	if err := checkContext(ctx, source); err != nil {
		return nil, err
	}

	log, runID := logger.WithRun(s.logger.WithField("source", source))
	start := time.Now()

	if !hasText(pages) {
		log.WithField("pages", len(pages)).Warn("No readable page text")
		return nil, apperrors.ExtractionError(apperrors.CodeNoPages, source, nil).
			WithContext("run_id", runID)
	}

	strategy, ok := s.registry.Detect(pages[0])
	if !ok {
		log.Warn("No layout recognized the first page")
		return nil, apperrors.ExtractionError(apperrors.CodeUnsupportedLayout, source, nil).
			WithContext("run_id", runID).
			WithContext("layouts", s.registry.Names())
	}

	var stmt *models.Statement
	err := logger.TimedOperation("extract "+strategy.Name(), log, func() error {
		var parseErr error
		stmt, parseErr = strategy.Parse(pages)
		return parseErr
	})
	if err != nil {
		return nil, apperrors.WrapIfNeeded(err, apperrors.CategoryExtraction, apperrors.CodeUnexpectedError,
			"layout "+strategy.Name()+" failed on "+source)
	}

	result := &Result{
		Source:    source,
		Layout:    strategy.Name(),
		Pages:     len(pages),
		Statement: stmt,
		Duration:  time.Since(start),
	}

	log.WithFields(logger.Fields{
		"layout":       result.Layout,
		"pages":        result.Pages,
		"transactions": len(stmt.Transactions),
	}).Info("Statement extracted")

	return result, nil
}

// DetectFile reports which layout recognizes the PDF at path. ok is false
// when the document is readable but no layout matches.
func (s *Service) DetectFile(ctx context.Context, path string) (name string, ok bool, err error) {
	if err := checkContext(ctx, path); err != nil {
		return "", false, err
	}

	err = WithDocument(path, func(doc *Document) error {
		first, err := doc.FirstPage()
		if err != nil {
			return err
		}
		name, ok = s.DetectText(first)
		return nil
	})
	return name, ok, err
}

// DetectText reports which layout recognizes a first page text
func (s *Service) DetectText(firstPage string) (string, bool) {
	strategy, ok := s.registry.Detect(firstPage)
	if !ok {
		return "", false
	}
	return strategy.Name(), true
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

func checkContext(ctx context.Context, source string) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return apperrors.InternalError(apperrors.CodeCancelled, "extraction of "+source, err)
	}
	return nil
}
