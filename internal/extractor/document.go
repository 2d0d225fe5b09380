package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "statement-extractor/pkg/errors"
)

// Document is an open PDF whose pages can be read as plain text
type Document struct {
	source string
	reader *pdf.Reader
	closer io.Closer
}

// OpenDocument opens the PDF at path
func OpenDocument(path string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = apperrors.FileError(apperrors.CodeFileCorrupted, path, fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}

	return &Document{source: path, reader: reader, closer: f}, nil
}

// ReadDocument parses a PDF held in memory, such as an upload
func ReadDocument(data []byte, source string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = apperrors.FileError(apperrors.CodeFileCorrupted, source, fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperrors.FileError(apperrors.CodeFileCorrupted, source, err)
	}

	return &Document{source: source, reader: reader}, nil
}

func openError(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return apperrors.FileError(apperrors.CodeFileNotFound, path, err)
	case errors.Is(err, os.ErrPermission):
		return apperrors.FileError(apperrors.CodeFilePermission, path, err)
	default:
		return apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}
}

// WithDocument opens path, runs fn and closes the document on every exit
// path. Panics raised by the PDF library inside fn become errors.
func WithDocument(path string, fn func(*Document) error) (err error) {
	doc, err := OpenDocument(path)
	if err != nil {
		return err
	}
	defer doc.Close()

	defer func() {
		if r := recover(); r != nil {
			err = apperrors.ExtractionError(apperrors.CodeTextExtraction, path, fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	return fn(doc)
}

// Source returns the path or name the document was opened from
func (d *Document) Source() string {
	return d.source
}

// NumPages returns the page count declared by the document
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// Pages returns the text of every page in order. A page whose text cannot be
// decoded yields an empty string so page positions are preserved.
func (d *Document) Pages() ([]string, error) {
	n := d.NumPages()
	if n <= 0 {
		return nil, apperrors.ExtractionError(apperrors.CodeNoPages, d.source, nil)
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, d.pageText(i))
	}
	return pages, nil
}

// FirstPage returns the text of the first page only
func (d *Document) FirstPage() (string, error) {
	if d.NumPages() <= 0 {
		return "", apperrors.ExtractionError(apperrors.CodeNoPages, d.source, nil)
	}
	return d.pageText(1), nil
}

// Close releases the underlying file, if any
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// pageText reads rows top to bottom, one line per row, falling back to the
// library's plain text rendering when rows yield nothing.
func (d *Document) pageText(num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	page := d.reader.Page(num)
	if page.V.IsNull() {
		return ""
	}

	if rows, err := page.GetTextByRow(); err == nil && len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			line := strings.TrimSpace(strings.Join(words, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}
	plain, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(plain)
}
