package truist

import (
	"regexp"
	"strings"
)

// Windows are measured in characters. Offsets are byte indexes into one
// page's text.

const (
	// headerLookback is how far before a table header a category header may sit
	headerLookback = 100
	// totalLookback is the window checked for "total" before a category header
	totalLookback = 10
	// continuationWindow is how much of a page may precede "(continued)"
	continuationWindow = 200
	// voteWindow is how much text after a table header feeds keyword voting
	voteWindow = 500
)

var (
	tableHeaderPattern    = compile(`(?i)DATE\s+DESCRIPTION\s+AMOUNT`)
	withdrawHeaderPattern = compile(`(?i)(Other\s*withdrawals?,?\s*debits|Otherwithdrawals?,?debits)`)
	depositHeaderPattern  = compile(`(?i)(Deposits,?\s*credits\s*and\s*interest|Deposits,?creditsandinterest)`)
	totalWithdrawPattern  = compile(`(?i)Total\s*other\s*withdrawals`)
	totalDepositPattern   = compile(`(?i)Total\s*deposits`)
	withdrawEndPattern    = compile(`(?i)continued\s*\n|§\s*PAGE`)
	depositEndPattern     = compile(`(?i)Important:|§\s*PAGE`)
)

var (
	depositKeywords    = []string{"DEPOSIT", "EDI PYMNTS", "PAYABLES", "INCOMING WIRE"}
	withdrawalKeywords = []string{"DEBIT", "ACH CORP DEBIT", "WIRE REF#", "ZELLE"}
)

type markerKind int

const (
	withdrawHeader markerKind = iota
	withdrawTable
	depositHeader
	depositTable
	totalWithdraw
	totalDeposit
)

// markers maps each anchor found on a page to its offset
type markers map[markerKind]int

func (m markers) has(kinds ...markerKind) bool {
	for _, k := range kinds {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// span is a half-open range [start, end) of page text
type span struct {
	start, end int
}

func (s span) empty() bool {
	return s.end <= s.start
}

func (s span) slice(text string) string {
	if s.empty() {
		return ""
	}
	return text[s.start:s.end]
}

// findMarkers records category headers that introduce a table, and the
// first "Total ..." lines. A header preceded by "total" is a summary line.
func findMarkers(text string) markers {
	m := make(markers)

	for _, th := range tableHeaderPattern.FindAllStringIndex(text, -1) {
		prefixStart := back(text, th[0], headerLookback)
		prefix := text[prefixStart:th[0]]

		if !m.has(withdrawHeader) {
			if pos, ok := headerInPrefix(withdrawHeaderPattern, prefix); ok {
				m[withdrawHeader] = prefixStart + pos
				m[withdrawTable] = th[1]
			}
		}

		if !m.has(depositHeader) {
			if pos, ok := headerInPrefix(depositHeaderPattern, prefix); ok {
				m[depositHeader] = prefixStart + pos
				m[depositTable] = th[1]
			}
		}
	}

	if loc := totalWithdrawPattern.FindStringIndex(text); loc != nil {
		m[totalWithdraw] = loc[0]
	}
	if loc := totalDepositPattern.FindStringIndex(text); loc != nil {
		m[totalDeposit] = loc[0]
	}

	return m
}

func headerInPrefix(pattern *regexp.Regexp, prefix string) (int, bool) {
	loc := pattern.FindStringIndex(prefix)
	if loc == nil {
		return 0, false
	}
	before := prefix[back(prefix, loc[0], totalLookback):loc[0]]
	if strings.Contains(strings.ToLower(before), "total") {
		return 0, false
	}
	return loc[0], true
}

func isContinuation(text string) bool {
	head := text[:forward(text, 0, continuationWindow)]
	return strings.Contains(strings.ToLower(head), "(continued)")
}

// voteKeywords reports which keyword families appear in the window after
// a table header ending at offset
func voteKeywords(text string, offset int) (hasDeposits, hasWithdrawals bool) {
	end := forward(text, offset, voteWindow)
	window := strings.ToUpper(text[offset:end])
	return containsAny(window, depositKeywords), containsAny(window, withdrawalKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// locateWithdrawals finds the withdrawals rows on a page
func locateWithdrawals(text string, m markers) (span, bool) {
	start, end := -1, -1

	if pos, ok := m[withdrawTable]; ok {
		start = pos
	} else if isContinuation(text) {
		if total, ok := m[totalWithdraw]; ok {
			if th := tableHeaderPattern.FindStringIndex(text); th != nil {
				start, end = th[1], total
			}
		} else if !m.has(depositHeader, depositTable) {
			if th := tableHeaderPattern.FindStringIndex(text); th != nil {
				// Mixed content still counts as withdrawals.
				if _, hasWithdrawals := voteKeywords(text, th[1]); hasWithdrawals {
					start = th[1]
				}
			}
		}
	}

	if start < 0 {
		return span{}, false
	}

	if end < 0 {
		switch {
		case m.has(depositHeader):
			end = m[depositHeader]
		case m.has(totalWithdraw):
			end = m[totalWithdraw]
		default:
			end = len(text)
			if loc := withdrawEndPattern.FindStringIndex(text[start:]); loc != nil {
				end = start + loc[0]
			}
		}
	}

	return span{start: start, end: end}, true
}

// locateDeposits finds the deposits rows on a page. When withdrawals end on
// the page, the deposits table is only searched after their total line.
func locateDeposits(text string, m markers) (span, bool) {
	start := -1

	if pos, ok := m[depositTable]; ok {
		start = pos
	} else if isContinuation(text) {
		if total, ok := m[totalWithdraw]; ok {
			if th := tableHeaderPattern.FindStringIndex(text[total:]); th != nil {
				start = total + th[1]
			}
		} else if !m.has(withdrawHeader, withdrawTable) {
			if th := tableHeaderPattern.FindStringIndex(text); th != nil {
				if hasDeposits, _ := voteKeywords(text, th[1]); hasDeposits {
					start = th[1]
				}
			}
		}
	}

	if start < 0 {
		return span{}, false
	}

	end := len(text)
	if pos, ok := m[totalDeposit]; ok {
		end = pos
	} else if loc := depositEndPattern.FindStringIndex(text[start:]); loc != nil {
		end = start + loc[0]
	}

	return span{start: start, end: end}, true
}
