package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Transaction represents a single row of the source CSV
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Hash        string    `json:"hash"`
}

// ComputeHash generates a short stable hash, used as a DOM anchor for the card
func (t *Transaction) ComputeHash() string {
	dateStr := t.Date.Format("2006-01-02")
	desc := strings.ToLower(strings.TrimSpace(t.Description))
	amount := fmt.Sprintf("%.2f", t.Amount)

	input := fmt.Sprintf("%s|%s|%s", dateStr, desc, amount)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}

// AbsAmount returns the absolute value of the amount
func (t *Transaction) AbsAmount() float64 {
	return math.Abs(t.Amount)
}

// Selection holds the user-chosen filter predicates. All predicates are
// ANDed. Empty Types/Categories sets match nothing: a form submitted with
// everything deselected legitimately yields zero rows.
type Selection struct {
	Types      []string
	Categories []string
	Start      time.Time
	End        time.Time
	MinAmount  float64
	MaxAmount  float64
}

// TransactionSet wraps a slice with filtering/grouping methods. Methods never
// mutate the receiver; every filter returns a new set over the same rows.
type TransactionSet struct {
	Transactions []Transaction
}

// NewTransactionSet creates a new TransactionSet from a slice
func NewTransactionSet(transactions []Transaction) *TransactionSet {
	return &TransactionSet{Transactions: transactions}
}

// Len returns the number of transactions
func (ts *TransactionSet) Len() int {
	return len(ts.Transactions)
}

// Filter returns the subset of rows matching every predicate of the
// selection: type in set, category in set, date within [Start, End] by
// calendar day, and abs(amount) within [MinAmount, MaxAmount] inclusive.
func (ts *TransactionSet) Filter(sel Selection) *TransactionSet {
	types := toSet(sel.Types)
	categories := toSet(sel.Categories)

	startDay := dayStart(sel.Start)
	endDay := dayEnd(sel.End)

	result := &TransactionSet{}
	for _, t := range ts.Transactions {
		if !types[t.Type] || !categories[t.Category] {
			continue
		}
		if t.Date.Before(startDay) || t.Date.After(endDay) {
			continue
		}
		abs := math.Abs(t.Amount)
		if abs < sel.MinAmount || abs > sel.MaxAmount {
			continue
		}
		result.Transactions = append(result.Transactions, t)
	}
	return result
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// SortByDateDesc sorts transactions by date descending. The sort is stable so
// rows on the same day keep their original CSV order.
func (ts *TransactionSet) SortByDateDesc() *TransactionSet {
	sorted := make([]Transaction, len(ts.Transactions))
	copy(sorted, ts.Transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return &TransactionSet{Transactions: sorted}
}

// DayGroup is one calendar day of transactions, in display order
type DayGroup struct {
	Day          time.Time
	Transactions []Transaction
}

// GroupByDay sorts descending by date and partitions into per-day groups,
// keyed by calendar day rather than timestamp. Group order follows the
// descending sort; intra-group order is the stable original order.
func (ts *TransactionSet) GroupByDay() []DayGroup {
	sorted := ts.SortByDateDesc()

	var groups []DayGroup
	for _, t := range sorted.Transactions {
		day := dayStart(t.Date)
		if len(groups) == 0 || !groups[len(groups)-1].Day.Equal(day) {
			groups = append(groups, DayGroup{Day: day})
		}
		last := len(groups) - 1
		groups[last].Transactions = append(groups[last].Transactions, t)
	}
	return groups
}

// Types returns the unique transaction types in first-seen order
func (ts *TransactionSet) Types() []string {
	return uniqueInOrder(ts.Transactions, func(t Transaction) string { return t.Type })
}

// Categories returns the unique categories in first-seen order
func (ts *TransactionSet) Categories() []string {
	return uniqueInOrder(ts.Transactions, func(t Transaction) string { return t.Category })
}

func uniqueInOrder(transactions []Transaction, key func(Transaction) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, t := range transactions {
		k := key(t)
		if !seen[k] {
			seen[k] = true
			values = append(values, k)
		}
	}
	return values
}

// MinDate returns the earliest transaction date
func (ts *TransactionSet) MinDate() time.Time {
	if len(ts.Transactions) == 0 {
		return time.Time{}
	}
	minDate := ts.Transactions[0].Date
	for _, t := range ts.Transactions[1:] {
		if t.Date.Before(minDate) {
			minDate = t.Date
		}
	}
	return minDate
}

// MaxDate returns the latest transaction date
func (ts *TransactionSet) MaxDate() time.Time {
	if len(ts.Transactions) == 0 {
		return time.Time{}
	}
	maxDate := ts.Transactions[0].Date
	for _, t := range ts.Transactions[1:] {
		if t.Date.After(maxDate) {
			maxDate = t.Date
		}
	}
	return maxDate
}

// MinAbsAmount returns the smallest absolute amount in the set
func (ts *TransactionSet) MinAbsAmount() float64 {
	if len(ts.Transactions) == 0 {
		return 0
	}
	minAmt := math.Abs(ts.Transactions[0].Amount)
	for _, t := range ts.Transactions[1:] {
		if abs := math.Abs(t.Amount); abs < minAmt {
			minAmt = abs
		}
	}
	return minAmt
}

// MaxAbsAmount returns the largest absolute amount in the set
func (ts *TransactionSet) MaxAbsAmount() float64 {
	if len(ts.Transactions) == 0 {
		return 0
	}
	maxAmt := math.Abs(ts.Transactions[0].Amount)
	for _, t := range ts.Transactions[1:] {
		if abs := math.Abs(t.Amount); abs > maxAmt {
			maxAmt = abs
		}
	}
	return maxAmt
}

// Record is one transaction serialized for the assistant prompt, restricted
// to the five source columns
type Record struct {
	Date        string  `json:"Date"`
	Description string  `json:"Description"`
	Category    string  `json:"Category"`
	Type        string  `json:"Type"`
	Amount      float64 `json:"Amount"`
}

// Records returns the per-row mappings sent to the assistant
func (ts *TransactionSet) Records() []Record {
	records := make([]Record, 0, len(ts.Transactions))
	for _, t := range ts.Transactions {
		records = append(records, Record{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Category:    t.Category,
			Type:        t.Type,
			Amount:      t.Amount,
		})
	}
	return records
}

// Copy creates a shallow copy of the TransactionSet
func (ts *TransactionSet) Copy() *TransactionSet {
	copied := make([]Transaction, len(ts.Transactions))
	copy(copied, ts.Transactions)
	return &TransactionSet{Transactions: copied}
}
