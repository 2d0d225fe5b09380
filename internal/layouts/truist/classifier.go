package truist

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minPageLength is the trimmed length below which a page counts as blank
const minPageLength = 100

// minDatedAmountLines is how many "MM/DD ... d.dd" rows make a page a
// transaction page when no header survived extraction
const minDatedAmountLines = 3

// Disclosure and reconciliation pages. They win over every other signal.
var boilerplatePatterns = []*regexp.Regexp{
	compile(`(?i)Questions,?\s*comments\s*or\s*errors\?`),
	compile(`(?i)Electronic\s*fund\s*transfers`),
	compile(`(?i)How\s*to\s*Reconcile\s*Your\s*Account`),
	compile(`(?i)Billing\s*Rights\s*Summary`),
	compile(`(?i)Mail-in\s*deposits`),
}

var transactionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Checks`),
	compile(`(?i)Other\s*withdrawals`),
	compile(`(?i)Deposits,?\s*credits`),
	compile(`(?i)DATE\s+DESCRIPTION\s+AMOUNT`),
	compile(`(?i)DATE\s+CHECK\s*#\s+AMOUNT`),
}

var datedAmountPattern = compile(`\d{2}/\d{2}\s+.*\d+\.\d{2}`)

// IsTransactionPage decides whether a page carries transaction tables
func IsTransactionPage(text string) bool {
	for _, p := range boilerplatePatterns {
		if p.MatchString(text) {
			return false
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < minPageLength {
		return false
	}

	for _, p := range transactionPatterns {
		if p.MatchString(text) {
			return true
		}
	}

	return len(datedAmountPattern.FindAllStringIndex(text, -1)) >= minDatedAmountLines
}

// ClassifyPages classifies every page of a document, by index
func ClassifyPages(pages []string) []bool {
	out := make([]bool, len(pages))
	for i, page := range pages {
		out[i] = IsTransactionPage(page)
	}
	return out
}
