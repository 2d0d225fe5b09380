// Package lender tags statement transactions that move money to or from
// known lenders and summarizes them.
package lender

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"statement-extractor/internal/models"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize folds text for keyword matching: NFKC, lower case, ASCII
// punctuation removed. Whitespace is kept as is.
func Normalize(text string) string {
	folded := strings.ToLower(norm.NFKC.String(text))
	return strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, folded)
}

// owner is what a single keyword pattern stands for. One normalized keyword
// may belong to several lenders and to the transfer list at once.
type owner struct {
	lender   string
	transfer bool
}

// Tagger matches transaction descriptions against lender and transfer
// keywords in a single pass. It is safe for concurrent use.
type Tagger struct {
	configured bool
	matcher    *ahocorasick.Matcher
	owners     [][]owner
	lenders    []string
}

// NewTagger builds the matcher for kw. Keywords that normalize to an empty
// string are ignored.
func NewTagger(kw *Keywords) *Tagger {
	t := &Tagger{configured: kw != nil}
	if kw == nil {
		return t
	}

	patternToIndex := make(map[string]int)
	var patterns []string

	add := func(keyword string, o owner) {
		clean := Normalize(keyword)
		if strings.TrimSpace(clean) == "" {
			return
		}
		idx, ok := patternToIndex[clean]
		if !ok {
			idx = len(patterns)
			patternToIndex[clean] = idx
			patterns = append(patterns, clean)
			t.owners = append(t.owners, nil)
		}
		for _, existing := range t.owners[idx] {
			if existing == o {
				return
			}
		}
		t.owners[idx] = append(t.owners[idx], o)
	}

	for name := range kw.BusinessCategoryKeywords {
		t.lenders = append(t.lenders, name)
	}
	sort.Strings(t.lenders)

	for _, name := range t.lenders {
		for _, keyword := range kw.BusinessCategoryKeywords[name] {
			add(keyword, owner{lender: name})
		}
	}
	for _, keyword := range kw.TransferKeywords {
		add(keyword, owner{transfer: true})
	}

	if len(patterns) > 0 {
		bytePatterns := make([][]byte, len(patterns))
		for i, p := range patterns {
			bytePatterns[i] = []byte(p)
		}
		t.matcher = ahocorasick.NewMatcher(bytePatterns)
	}

	return t
}

// Lenders returns the configured lender names in sorted order
func (t *Tagger) Lenders() []string {
	return append([]string(nil), t.lenders...)
}

// Match returns the lenders whose keywords occur in description, sorted and
// at most once each, and whether any transfer keyword occurs.
func (t *Tagger) Match(description string) ([]string, bool) {
	if t.matcher == nil {
		return nil, false
	}

	hits := t.matcher.MatchThreadSafe([]byte(Normalize(description)))

	if len(hits) == 0 {
		return nil, false
	}

	seen := make(map[string]bool)
	var lenders []string
	transfer := false
	for _, idx := range hits {
		if idx < 0 || idx >= len(t.owners) {
			continue
		}
		for _, o := range t.owners[idx] {
			if o.transfer {
				transfer = true
				continue
			}
			if !seen[o.lender] {
				seen[o.lender] = true
				lenders = append(lenders, o.lender)
			}
		}
	}
	sort.Strings(lenders)

	return lenders, transfer
}

// TaggedTransaction is a transaction with its lender annotations
type TaggedTransaction struct {
	*models.Transaction
	LenderMatches []string
	IsTransfer    bool
}

// IsLenderTransfer reports a deposit that came from a lender or carries a
// transfer keyword
func (tt TaggedTransaction) IsLenderTransfer() bool {
	return tt.Category == models.CategoryDeposit && (tt.IsTransfer || len(tt.LenderMatches) > 0)
}

// IsLenderPayment reports a debit paid to a lender
func (tt TaggedTransaction) IsLenderPayment() bool {
	return tt.Category.IsDebit() && len(tt.LenderMatches) > 0
}

// LenderSummary totals tagged transactions of one direction
type LenderSummary struct {
	Count    int                             `json:"count"`
	Total    decimal.Decimal                 `json:"total"`
	ByLender map[string]models.CategoryTotal `json:"by_lender"`
}

func newLenderSummary() LenderSummary {
	return LenderSummary{Total: decimal.Zero, ByLender: make(map[string]models.CategoryTotal)}
}

func (ls *LenderSummary) add(tt TaggedTransaction) {
	ls.Count++
	ls.Total = ls.Total.Add(tt.Amount)
	for _, name := range tt.LenderMatches {
		lt := ls.ByLender[name]
		lt.Count++
		lt.Total = lt.Total.Add(tt.Amount)
		ls.ByLender[name] = lt
	}
}

// TaggedStatement pairs a statement with per-transaction tags. Transactions
// is parallel to Statement.Transactions. Tagged is false when no keyword
// configuration was supplied.
type TaggedStatement struct {
	Statement    *models.Statement
	Tagged       bool
	Transactions []TaggedTransaction
	Transfers    LenderSummary
	Payments     LenderSummary
}

// Tag annotates every transaction of stmt. The statement is not modified.
func (t *Tagger) Tag(stmt *models.Statement) *TaggedStatement {
	ts := &TaggedStatement{
		Statement:    stmt,
		Tagged:       t.configured,
		Transactions: make([]TaggedTransaction, 0, len(stmt.Transactions)),
		Transfers:    newLenderSummary(),
		Payments:     newLenderSummary(),
	}

	for _, tx := range stmt.Transactions {
		lenders, transfer := t.Match(tx.Description)
		tagged := TaggedTransaction{Transaction: tx, LenderMatches: lenders, IsTransfer: transfer}
		ts.Transactions = append(ts.Transactions, tagged)

		switch {
		case tagged.IsLenderTransfer():
			ts.Transfers.add(tagged)
		case tagged.IsLenderPayment():
			ts.Payments.add(tagged)
		}
	}

	return ts
}

// Untagged wraps stmt without matching anything, for output paths that run
// without a keywords file
func Untagged(stmt *models.Statement) *TaggedStatement {
	return NewTagger(nil).Tag(stmt)
}
