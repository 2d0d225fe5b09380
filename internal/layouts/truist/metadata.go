package truist

import (
	"regexp"
	"strconv"
	"time"

	"statement-extractor/internal/normalize"
)

var (
	statementDatePattern = compile(`For\s*(\d{2}/\d{2}/(\d{4}|\d{2}))`)
	anyYearPattern       = regexp.MustCompile(`20\d{2}`)
	accountPattern       = compile(`CHECKING\s*(\d+)`)
	periodStartPattern   = compile(`(?i)previous\s*balance\s*as\s*of\s*(\d{2}/\d{2}/\d{4})`)
	periodEndPattern     = compile(`(?i)new\s*balance\s*as\s*of\s*(\d{2}/\d{2}/\d{4})`)
)

// Metadata is what the first page tells us about the whole statement
type Metadata struct {
	Year          int
	AccountNumber string
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
}

// ExtractMetadata reads year, account and period from the first page.
// Missing fields stay empty; the year falls back to now's year.
func ExtractMetadata(firstPage string, now time.Time) Metadata {
	meta := Metadata{Year: extractYear(firstPage, now)}

	if m := accountPattern.FindStringSubmatch(firstPage); m != nil {
		meta.AccountNumber = m[1]
	}

	meta.PeriodStart = extractPeriodDate(periodStartPattern, firstPage)
	meta.PeriodEnd = extractPeriodDate(periodEndPattern, firstPage)

	return meta
}

func extractYear(text string, now time.Time) int {
	if m := statementDatePattern.FindStringSubmatch(text); m != nil {
		year, err := strconv.Atoi(m[2])
		if err == nil {
			if len(m[2]) == 2 {
				year += 2000
			}
			return year
		}
	}

	if m := anyYearPattern.FindString(text); m != "" {
		if year, err := strconv.Atoi(m); err == nil {
			return year
		}
	}

	return now.Year()
}

func extractPeriodDate(pattern *regexp.Regexp, text string) *time.Time {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	d, err := normalize.ParseFullDate(m[1])
	if err != nil {
		return nil
	}
	return &d
}
