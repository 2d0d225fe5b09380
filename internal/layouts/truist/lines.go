package truist

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"statement-extractor/internal/models"
	"statement-extractor/internal/normalize"
	apperrors "statement-extractor/pkg/errors"
)

var (
	checksAnchorPattern = compile(`(?i)Checks\s*\n`)
	checksEndPattern    = compile(`(?i)(Total\s*checks|\*\s*indicates|Other\s*withdraw|Otherwithdraw|DATE\s+DESCRIPTION\s+AMOUNT)`)
	// One check entry; a line may hold several columns of them.
	checkRowPattern = regexp.MustCompile(`(\d{2}/\d{2})[ \t\p{Zs}]+\*?(\d+)[ \t\p{Zs}]+([\d,]+\.\d{2})`)

	rowPattern = compile(`^(\d{2}/\d{2})\s+(.+?)\s+([\d,]+\.\d{2})\s*$`)

	descriptionWord = regexp.MustCompile(`\bDESCRIPTION\b`)
	amountWord      = regexp.MustCompile(`\bAMOUNT\b`)
	dateWord        = regexp.MustCompile(`\bDATE\b`)
	checkWord       = regexp.MustCompile(`\bCHECK\b`)
	pageFooter      = compile(`(?i)\bpage\s*\d+\s*of\s*\d+\b`)
)

// lineParser turns located text into transactions for one statement year.
// Conversion failures drop the single row and are kept in errs.
type lineParser struct {
	year int
	errs *apperrors.FormatErrorCollector
}

func newLineParser(year int, errs *apperrors.FormatErrorCollector) *lineParser {
	if errs == nil {
		errs = apperrors.NewFormatErrorCollector(0)
	}
	return &lineParser{year: year, errs: errs}
}

// checks extracts the checks table that follows a "Checks" header line
func (p *lineParser) checks(text string) []*models.Transaction {
	anchor := checksAnchorPattern.FindStringIndex(text)
	if anchor == nil {
		return nil
	}

	start := anchor[1]
	end := len(text)
	if loc := checksEndPattern.FindStringIndex(text[start:]); loc != nil {
		end = start + loc[0]
	}

	var out []*models.Transaction
	for _, m := range checkRowPattern.FindAllStringSubmatch(text[start:end], -1) {
		date, ok := p.date(m[1])
		if !ok {
			continue
		}
		amount, ok := p.amount(m[3])
		if !ok {
			continue
		}
		tx, err := models.NewCheck(date, m[2], amount)
		if err != nil {
			p.errs.Add(apperrors.NewFormatError(apperrors.CodeInvalidData, "check number", m[2], "digits"))
			continue
		}
		out = append(out, tx)
	}
	return out
}

// rows extracts "MM/DD description amount" lines of one category
func (p *lineParser) rows(text string, category models.Category) []*models.Transaction {
	var out []*models.Transaction

	for _, line := range strings.Split(text, "\n") {
		if isNoiseLine(line) {
			continue
		}

		m := rowPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		description := strings.TrimSpace(m[2])
		if utf8.RuneCountInString(description) < models.MinDescriptionLength {
			continue
		}

		date, ok := p.date(m[1])
		if !ok {
			continue
		}
		amount, ok := p.amount(m[3])
		if !ok {
			continue
		}

		tx, err := models.NewTransaction(date, description, amount, category)
		if err != nil {
			continue
		}
		out = append(out, tx)
	}

	return out
}

// isNoiseLine matches repeated table headers, continuation lines and footers
func isNoiseLine(line string) bool {
	upper := strings.ToUpper(line)
	switch {
	case descriptionWord.MatchString(upper) && amountWord.MatchString(upper):
		return true
	case dateWord.MatchString(upper) && checkWord.MatchString(upper):
		return true
	case strings.Contains(upper, "CONTINUED"):
		return true
	case pageFooter.MatchString(line):
		return true
	}
	return false
}

func (p *lineParser) date(token string) (time.Time, bool) {
	d, err := normalize.ParseMonthDay(token, p.year)
	if err != nil {
		p.collect(err)
		return time.Time{}, false
	}
	return d, true
}

func (p *lineParser) amount(token string) (decimal.Decimal, bool) {
	a, err := normalize.ParseAmount(token)
	if err != nil {
		p.collect(err)
		return a, false
	}
	return a, true
}

func (p *lineParser) collect(err error) {
	if formatErr, ok := apperrors.AsFormatError(err); ok {
		p.errs.Add(formatErr)
	}
}
