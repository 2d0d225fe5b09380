// Package api serves statement extraction over HTTP.
//
// Routes:
//
//	GET  /api/health   liveness and the registered layouts
//	POST /api/extract  multipart "file" upload (a PDF), or one "pages" form
//	                   value per page of already extracted text
//
// A successful extraction responds with the same document the JSON report
// writer produces.
package api

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"statement-extractor/internal/extractor"
	"statement-extractor/internal/lender"
	"statement-extractor/internal/reporter"
	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

// Version is reported by the health endpoint
var Version = "dev"

// Config holds HTTP server settings
type Config struct {
	// BodyLimit caps request bodies, uploads included
	BodyLimit int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the server defaults: 32 MiB bodies and 30s timeouts
func DefaultConfig() *Config {
	return &Config{
		BodyLimit:    32 << 20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server exposes an extraction service over HTTP
type Server struct {
	service *extractor.Service
	tagger  *lender.Tagger
	logger  logger.Logger
	app     *fiber.App
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status  string   `json:"status"`
	Version string   `json:"version"`
	Layouts []string `json:"layouts"`
	Tagging bool     `json:"tagging"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error *apperrors.ExtractorError `json:"error"`
}

// NewServer builds the fiber app. A nil tagger disables lender tagging.
func NewServer(service *extractor.Service, tagger *lender.Tagger, config *Config, log logger.Logger) (*Server, error) {
	if service == nil {
		return nil, apperrors.ValidationError(apperrors.CodeMissingField, "service", nil, nil)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if tagger == nil {
		tagger = lender.NewTagger(nil)
	}

	s := &Server{
		service: service,
		tagger:  tagger,
		logger:  log.WithComponent("api"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "statement-extractor",
		BodyLimit:             config.BodyLimit,
		ReadTimeout:           config.ReadTimeout,
		WriteTimeout:          config.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	s.app.Get("/api/health", s.handleHealth)
	s.app.Post("/api/extract", s.handleExtract)

	return s, nil
}

// App returns the underlying fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.WithField("addr", addr).Info("HTTP server listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: Version,
		Layouts: s.service.Layouts(),
		Tagging: len(s.tagger.Lenders()) > 0,
	})
}

func (s *Server) handleExtract(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var (
		result *extractor.Result
		err    error
	)

	if fh, ferr := c.FormFile("file"); ferr == nil {
		data, rerr := readUpload(fh)
		if rerr != nil {
			return apperrors.FileError(apperrors.CodeFileCorrupted, fh.Filename, rerr)
		}
		result, err = s.service.ExtractDocument(ctx, fh.Filename, data)
	} else {
		pages := formPages(c)
		if len(pages) == 0 {
			return apperrors.ValidationError(apperrors.CodeMissingField, "file", nil, nil).
				WithSuggestion(`upload a PDF as "file" or send page text as "pages"`)
		}
		result, err = s.service.ExtractPages(ctx, "request", pages)
	}
	if err != nil {
		return err
	}

	return c.JSON(reporter.BuildDocument(s.tagger.Tag(result.Statement)))
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// formPages collects every "pages" value from a multipart or urlencoded body
func formPages(c *fiber.Ctx) []string {
	if form, err := c.MultipartForm(); err == nil {
		return form.Value["pages"]
	}

	var pages []string
	for _, v := range c.Request().PostArgs().PeekMulti("pages") {
		pages = append(pages, string(v))
	}
	return pages
}

// handleError renders every error as an ErrorResponse with a status that
// follows the error code
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{
			Error: &apperrors.ExtractorError{
				Category: apperrors.CategoryValidation,
				Code:     apperrors.CodeInvalidData,
				Message:  fe.Message,
			},
		})
	}

	appErr, ok := apperrors.AsExtractorError(err)
	if !ok {
		appErr = apperrors.InternalError(apperrors.CodeUnexpectedError, c.Path(), err)
	}

	status := StatusFor(appErr)
	entry := s.logger.WithError(err).WithFields(logger.Fields{
		"path":   c.Path(),
		"status": status,
		"code":   appErr.Code,
	})
	if status >= fiber.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	return c.Status(status).JSON(ErrorResponse{Error: appErr})
}

// StatusFor maps an error code to an HTTP status
func StatusFor(err *apperrors.ExtractorError) int {
	switch err.Code {
	case apperrors.CodeMissingField, apperrors.CodeInvalidData, apperrors.CodeInvalidFormat:
		return fiber.StatusBadRequest
	case apperrors.CodeNoPages, apperrors.CodeUnsupportedLayout,
		apperrors.CodeFileCorrupted, apperrors.CodeTextExtraction:
		return fiber.StatusUnprocessableEntity
	case apperrors.CodeCancelled:
		return fiber.StatusRequestTimeout
	}

	switch err.Category {
	case apperrors.CategoryValidation, apperrors.CategoryParse:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
