package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout used for dates in every output format
const DateLayout = "2006-01-02"

// MinDescriptionLength is the shortest description a transaction may carry
const MinDescriptionLength = 3

// Category is the kind of a statement transaction
type Category string

const (
	// CategoryCheck is a paid check, listed in the checks table
	CategoryCheck Category = "check"
	// CategoryWithdrawal is any other debit
	CategoryWithdrawal Category = "withdrawal"
	// CategoryDeposit is a credit to the account
	CategoryDeposit Category = "deposit"
)

// Categories lists every category in canonical order
var Categories = []Category{CategoryCheck, CategoryWithdrawal, CategoryDeposit}

func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is one of the known values
func (c Category) IsValid() bool {
	return c == CategoryCheck || c == CategoryWithdrawal || c == CategoryDeposit
}

// Rank orders categories within the same date
func (c Category) Rank() int {
	switch c {
	case CategoryCheck:
		return 0
	case CategoryWithdrawal:
		return 1
	case CategoryDeposit:
		return 2
	default:
		return 3
	}
}

// IsDebit reports whether the category takes money out of the account
func (c Category) IsDebit() bool {
	return c == CategoryCheck || c == CategoryWithdrawal
}

// Transaction is one record parsed from a statement
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"transaction_type"`
	CheckNumber *int            `json:"check_number"`
}

// NewTransaction creates a validated Transaction
func NewTransaction(date time.Time, description string, amount decimal.Decimal, category Category) (*Transaction, error) {
	t := &Transaction{
		Date:        date,
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Category:    category,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewCheck creates a validated check transaction from the check number
// digits as printed on the statement
func NewCheck(date time.Time, digits string, amount decimal.Decimal) (*Transaction, error) {
	number, err := strconv.Atoi(digits)
	if err != nil {
		return nil, fmt.Errorf("invalid check number %q: %w", digits, err)
	}

	t := &Transaction{
		Date:        date,
		Description: "Check #" + digits,
		Amount:      amount,
		Category:    CategoryCheck,
		CheckNumber: &number,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate performs basic validation on the Transaction
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date cannot be zero")
	}

	if utf8.RuneCountInString(strings.TrimSpace(t.Description)) < MinDescriptionLength {
		return fmt.Errorf("transaction description too short: %q", t.Description)
	}

	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount cannot be negative: %s", t.Amount.StringFixed(2))
	}

	if !t.Category.IsValid() {
		return fmt.Errorf("invalid transaction category: %s", t.Category)
	}

	if t.Category == CategoryCheck && t.CheckNumber == nil {
		return fmt.Errorf("check transaction requires a check number")
	}

	if t.Category != CategoryCheck && t.CheckNumber != nil {
		return fmt.Errorf("check number is only valid on checks")
	}

	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{Date: %s, Category: %s, Amount: %s, Description: %s}",
		t.Date.Format(DateLayout), t.Category, t.Amount.StringFixed(2), t.Description)
}

// MarshalJSON writes the date as YYYY-MM-DD and the amount with two decimals
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Date   string `json:"date"`
		Amount string `json:"amount"`
		*Alias
	}{
		Date:   t.Date.Format(DateLayout),
		Amount: t.Amount.StringFixed(2),
		Alias:  (*Alias)(t),
	})
}

// Less orders transactions by date, then category rank
func (t *Transaction) Less(other *Transaction) bool {
	if !t.Date.Equal(other.Date) {
		return t.Date.Before(other.Date)
	}
	return t.Category.Rank() < other.Category.Rank()
}

// Statement is the structured result of parsing one document
type Statement struct {
	BankName      string         `json:"bank_name"`
	AccountNumber string         `json:"account_number,omitempty"`
	PeriodStart   *time.Time     `json:"period_start,omitempty"`
	PeriodEnd     *time.Time     `json:"period_end,omitempty"`
	Transactions  []*Transaction `json:"transactions"`
}

// SortTransactions applies the canonical (date, category) order.
// Records that compare equal keep their extraction order.
func (s *Statement) SortTransactions() {
	sort.SliceStable(s.Transactions, func(i, j int) bool {
		return s.Transactions[i].Less(s.Transactions[j])
	})
}

// ByCategory returns the transactions of one category in statement order
func (s *Statement) ByCategory(c Category) []*Transaction {
	var out []*Transaction
	for _, t := range s.Transactions {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// Checks returns the check transactions in statement order
func (s *Statement) Checks() []*Transaction {
	return s.ByCategory(CategoryCheck)
}

// Withdrawals returns the other withdrawals in statement order
func (s *Statement) Withdrawals() []*Transaction {
	return s.ByCategory(CategoryWithdrawal)
}

// Deposits returns the deposits and credits in statement order
func (s *Statement) Deposits() []*Transaction {
	return s.ByCategory(CategoryDeposit)
}

// MaskedAccount returns the account number reduced to its last four digits
func (s *Statement) MaskedAccount() string {
	if s.AccountNumber == "" {
		return ""
	}
	if len(s.AccountNumber) <= 4 {
		return "..." + s.AccountNumber
	}
	return "..." + s.AccountNumber[len(s.AccountNumber)-4:]
}

// CategoryTotal is the count and sum of one category
type CategoryTotal struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Summary aggregates a statement by category
type Summary struct {
	BankName          string                     `json:"bank_name"`
	TotalTransactions int                        `json:"total_transactions"`
	Checks            int                        `json:"checks"`
	Withdrawals       int                        `json:"withdrawals"`
	Deposits          int                        `json:"deposits"`
	Totals            map[Category]CategoryTotal `json:"-"`
}

// Summary derives per-category counts and totals from the transactions
func (s *Statement) Summary() Summary {
	summary := Summary{
		BankName:          s.BankName,
		TotalTransactions: len(s.Transactions),
		Totals:            make(map[Category]CategoryTotal, len(Categories)),
	}

	for _, c := range Categories {
		summary.Totals[c] = CategoryTotal{Total: decimal.Zero}
	}

	for _, t := range s.Transactions {
		ct := summary.Totals[t.Category]
		ct.Count++
		ct.Total = ct.Total.Add(t.Amount)
		summary.Totals[t.Category] = ct
	}

	summary.Checks = summary.Totals[CategoryCheck].Count
	summary.Withdrawals = summary.Totals[CategoryWithdrawal].Count
	summary.Deposits = summary.Totals[CategoryDeposit].Count

	return summary
}

// NetChange returns deposits minus checks and withdrawals
func (s Summary) NetChange() decimal.Decimal {
	return s.Totals[CategoryDeposit].Total.
		Sub(s.Totals[CategoryWithdrawal].Total).
		Sub(s.Totals[CategoryCheck].Total)
}
