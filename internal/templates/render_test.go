package templates

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"txview/internal/models"
	"txview/internal/testutil"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{-45.6, "45.6€"},
		{783.333, "+783.33€"},
		{783.33, "+783.33€"},
		{-52.10, "52.1€"},
		{0, "0€"},
		{20, "+20€"},
		{-0.005, "0.01€"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.input); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAmountClass(t *testing.T) {
	if got := AmountClass(783.33); got != "amount-positive" {
		t.Errorf("positive amount class = %q", got)
	}
	if got := AmountClass(-45.6); got != "amount-negative" {
		t.Errorf("negative amount class = %q", got)
	}
	// Zero is non-positive
	if got := AmountClass(0); got != "amount-negative" {
		t.Errorf("zero amount class = %q", got)
	}
}

func TestCategoryIcon(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Groceries", "🛍️"},
		{"Subscription", "📆"},
		{"Transport", "🚇"},
		{"Bar", "🍺"},
		{"Restaurant", "🍽️"},
		{"Entertainment", "🎮"},
		{"Online Purchase", "💻"},
		{"Utilities", "💡"},
		{"Income", "💰"},
		{"Health", "💳"},
		{"", "💳"},
	}

	for _, tt := range tests {
		if got := CategoryIcon(tt.category); got != tt.want {
			t.Errorf("CategoryIcon(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestFormatGroupDate(t *testing.T) {
	d := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := FormatGroupDate(d); got != "Tuesday, 04 March 2025" {
		t.Errorf("FormatGroupDate = %q, want %q", got, "Tuesday, 04 March 2025")
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(filepath.Join(testutil.ProjectRoot(), "web", "templates"), false)
	if err != nil {
		t.Fatalf("loading templates: %v", err)
	}
	return r
}

func TestRenderTransactionsList(t *testing.T) {
	r := newTestRenderer(t)

	groups := []models.DayGroup{
		{
			Day: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			Transactions: []models.Transaction{
				{Description: "Transfer from Dad", Category: "Income", Amount: 783.33, Hash: "abc123"},
			},
		},
	}

	out, err := r.RenderToString("transactions-list", map[string]interface{}{"Groups": groups})
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}

	for _, want := range []string{"Tuesday, 04 March 2025", "💰 Transfer from Dad", "+783.33€", "amount-positive", "t-abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered list missing %q\n%s", want, out)
		}
	}
}

func TestRenderTransactionsListEmpty(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.RenderToString("transactions-list", map[string]interface{}{"Groups": nil})
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}

	if !strings.Contains(out, "No transactions found.") {
		t.Errorf("expected the no-results notice, got:\n%s", out)
	}
	if strings.Contains(out, "date-header") {
		t.Errorf("empty list should render no date headers")
	}
}

func TestMarkdownRendersBulletList(t *testing.T) {
	out := markdown("- 2025-04-12 | 💻 Expense| Amazon order: -34.99€")
	if !strings.Contains(string(out), "<li>") {
		t.Errorf("expected an HTML list item, got %q", out)
	}
}
