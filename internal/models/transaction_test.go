package models

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleSet mirrors a small CSV: mixed types, categories, and two rows on
// the same day to exercise stable ordering
func sampleSet() *TransactionSet {
	return NewTransactionSet([]Transaction{
		{Date: day(2025, 3, 4), Description: "Transfer from Dad", Category: "Income", Type: "Income", Amount: 783.33},
		{Date: day(2025, 3, 4), Description: "Metro card top-up", Category: "Transport", Type: "Expense", Amount: -20},
		{Date: day(2025, 3, 15), Description: "Mercadona", Category: "Groceries", Type: "Expense", Amount: -45.6},
		{Date: day(2025, 4, 12), Description: "Supermarket", Category: "Groceries", Type: "Expense", Amount: -52.10},
		{Date: day(2025, 4, 12), Description: "Cinema tickets", Category: "Entertainment", Type: "Expense", Amount: -18},
		{Date: day(2025, 4, 28), Description: "Part-time job", Category: "Income", Type: "Income", Amount: 450},
	})
}

func allSelection(ts *TransactionSet) Selection {
	return Selection{
		Types:      ts.Types(),
		Categories: ts.Categories(),
		Start:      ts.MinDate(),
		End:        ts.MaxDate(),
		MinAmount:  0,
		MaxAmount:  10000,
	}
}

func TestFilterAllPredicatesHold(t *testing.T) {
	ts := sampleSet()
	sel := Selection{
		Types:      []string{"Expense"},
		Categories: []string{"Groceries", "Transport"},
		Start:      day(2025, 3, 1),
		End:        day(2025, 4, 30),
		MinAmount:  21,
		MaxAmount:  60,
	}

	filtered := ts.Filter(sel)

	if filtered.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", filtered.Len())
	}
	for _, tr := range filtered.Transactions {
		if tr.Type != "Expense" {
			t.Errorf("row %q escaped type predicate", tr.Description)
		}
		if tr.Category != "Groceries" && tr.Category != "Transport" {
			t.Errorf("row %q escaped category predicate", tr.Description)
		}
		if tr.Date.Before(sel.Start) || tr.Date.After(sel.End.Add(24*time.Hour)) {
			t.Errorf("row %q escaped date predicate", tr.Description)
		}
		if abs := math.Abs(tr.Amount); abs < sel.MinAmount || abs > sel.MaxAmount {
			t.Errorf("row %q escaped amount predicate (%.2f)", tr.Description, abs)
		}
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	ts := sampleSet()
	sel := Selection{
		Types:      []string{"Expense"},
		Categories: []string{"Groceries"},
		Start:      day(2025, 3, 1),
		End:        day(2025, 4, 30),
		MinAmount:  0,
		MaxAmount:  100,
	}

	once := ts.Filter(sel)
	twice := once.Filter(sel)

	if !reflect.DeepEqual(once.Transactions, twice.Transactions) {
		t.Errorf("filtering a filtered set with the same selection changed the result")
	}
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	ts := sampleSet()
	before := ts.Copy()

	ts.Filter(Selection{Types: []string{"Income"}, Categories: ts.Categories(), Start: ts.MinDate(), End: ts.MaxDate(), MaxAmount: 10000})

	if !reflect.DeepEqual(before.Transactions, ts.Transactions) {
		t.Errorf("Filter mutated the source set")
	}
}

func TestEmptyTypeSelectionYieldsNothing(t *testing.T) {
	ts := sampleSet()
	sel := allSelection(ts)
	sel.Types = nil

	if got := ts.Filter(sel).Len(); got != 0 {
		t.Errorf("empty type selection: expected 0 rows, got %d", got)
	}
}

func TestEmptyCategorySelectionYieldsNothing(t *testing.T) {
	ts := sampleSet()
	sel := allSelection(ts)
	sel.Categories = nil

	if got := ts.Filter(sel).Len(); got != 0 {
		t.Errorf("empty category selection: expected 0 rows, got %d", got)
	}
}

func TestSingleDayRange(t *testing.T) {
	ts := sampleSet()
	sel := allSelection(ts)
	sel.Start = day(2025, 4, 12)
	sel.End = day(2025, 4, 12)

	filtered := ts.Filter(sel)
	if filtered.Len() != 2 {
		t.Fatalf("expected the 2 same-day rows, got %d", filtered.Len())
	}
	for _, tr := range filtered.Transactions {
		if !tr.Date.Equal(day(2025, 4, 12)) {
			t.Errorf("row %q outside the single-day range", tr.Description)
		}
	}
}

func TestAmountBoundsAreInclusive(t *testing.T) {
	ts := sampleSet()
	sel := allSelection(ts)
	sel.MinAmount = 45.6
	sel.MaxAmount = 45.6

	filtered := ts.Filter(sel)
	if filtered.Len() != 1 || filtered.Transactions[0].Description != "Mercadona" {
		t.Errorf("expected only the 45.6 row, got %d rows", filtered.Len())
	}
}

func TestGroupByDay(t *testing.T) {
	ts := sampleSet()
	groups := ts.GroupByDay()

	total := 0
	for _, g := range groups {
		total += len(g.Transactions)
	}
	if total != ts.Len() {
		t.Errorf("group sizes sum to %d, want %d", total, ts.Len())
	}

	seen := make(map[string]bool)
	for i, g := range groups {
		key := g.Day.Format("2006-01-02")
		if seen[key] {
			t.Errorf("duplicate date group %s", key)
		}
		seen[key] = true

		if i > 0 && !groups[i-1].Day.After(g.Day) {
			t.Errorf("groups not in descending order: %s before %s",
				groups[i-1].Day.Format("2006-01-02"), key)
		}
	}
}

func TestGroupByDayKeepsIntraGroupOrder(t *testing.T) {
	ts := sampleSet()
	groups := ts.GroupByDay()

	// 2025-04-12 holds two rows; original CSV order must survive the sort
	for _, g := range groups {
		if g.Day.Equal(day(2025, 4, 12)) {
			if g.Transactions[0].Description != "Supermarket" || g.Transactions[1].Description != "Cinema tickets" {
				t.Errorf("same-day rows reordered: %q, %q",
					g.Transactions[0].Description, g.Transactions[1].Description)
			}
			return
		}
	}
	t.Fatal("expected a group for 2025-04-12")
}

func TestGroupByDayEmptySet(t *testing.T) {
	if groups := NewTransactionSet(nil).GroupByDay(); len(groups) != 0 {
		t.Errorf("expected no groups for an empty set, got %d", len(groups))
	}
}

func TestUniqueValuesKeepFirstSeenOrder(t *testing.T) {
	ts := sampleSet()

	wantTypes := []string{"Income", "Expense"}
	if got := ts.Types(); !reflect.DeepEqual(got, wantTypes) {
		t.Errorf("Types() = %v, want %v", got, wantTypes)
	}

	wantCats := []string{"Income", "Transport", "Groceries", "Entertainment"}
	if got := ts.Categories(); !reflect.DeepEqual(got, wantCats) {
		t.Errorf("Categories() = %v, want %v", got, wantCats)
	}
}

func TestAbsAmountBounds(t *testing.T) {
	ts := sampleSet()

	if got := ts.MinAbsAmount(); got != 18 {
		t.Errorf("MinAbsAmount() = %v, want 18", got)
	}
	if got := ts.MaxAbsAmount(); got != 783.33 {
		t.Errorf("MaxAbsAmount() = %v, want 783.33", got)
	}
}

func TestRecordsRestrictColumns(t *testing.T) {
	ts := sampleSet()
	records := ts.Records()

	if len(records) != ts.Len() {
		t.Fatalf("expected %d records, got %d", ts.Len(), len(records))
	}
	first := records[0]
	if first.Date != "2025-03-04" || first.Description != "Transfer from Dad" || first.Amount != 783.33 {
		t.Errorf("unexpected first record: %+v", first)
	}
}

func TestComputeHashStable(t *testing.T) {
	a := Transaction{Date: day(2025, 3, 4), Description: " Mercadona ", Amount: -45.6}
	b := Transaction{Date: day(2025, 3, 4), Description: "mercadona", Amount: -45.6}

	if a.ComputeHash() != b.ComputeHash() {
		t.Errorf("hash should ignore case and surrounding whitespace")
	}
	if a.ComputeHash() == (&Transaction{Date: day(2025, 3, 5), Description: "Mercadona", Amount: -45.6}).ComputeHash() {
		t.Errorf("hash should depend on the date")
	}
}
