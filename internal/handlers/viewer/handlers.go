// Package viewer serves the transaction list page: sidebar filters, the
// date-grouped card list, and the optional AI assistant search above it.
package viewer

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"txview/internal/assets"
	"txview/internal/config"
	httpx "txview/internal/http"
	"txview/internal/models"
	"txview/internal/services/assistant"
	"txview/internal/services/dataloader"
	"txview/internal/templates"
)

var (
	cfg      *config.Config
	loader   *dataloader.DataLoader
	renderer *templates.Renderer
	ai       *assistant.Service
	page     *assets.Assets
)

// Initialize sets up the viewer package with required dependencies
func Initialize(c *config.Config, l *dataloader.DataLoader, r *templates.Renderer, a *assistant.Service, p *assets.Assets) {
	cfg = c
	loader = l
	renderer = r
	ai = a
	page = p
}

// RegisterRoutes registers all viewer routes
func RegisterRoutes(r chi.Router) {
	r.Get("/transactions", handleTransactions)
	r.Get("/transactions/list", handleListPartial)
}

// option is a filter checkbox: an observed value plus its selected state
type option struct {
	Name    string
	Checked bool
}

// viewState is everything derived from the query string for one render cycle
type viewState struct {
	Data     *models.TransactionSet
	Filtered *models.TransactionSet
	Groups   []models.DayGroup

	Types      []option
	Categories []option

	Selection models.Selection
	MinBound  int
	MaxBound  int
}

func handleTransactions(w http.ResponseWriter, r *http.Request) {
	state, err := buildViewState(r)
	if err != nil {
		httpx.ErrorResponse(w, "Error loading data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pageData := basePageData(state)
	pageData["Title"] = "Transactions"
	pageData["CSS"] = page.CSS
	pageData["LogoURL"] = page.LogoURL()
	pageData["Warnings"] = page.Warnings

	// The assistant search is independent of the filters: it always sees the
	// full loaded table, and its failure must not take the list down with it.
	query := r.URL.Query().Get("q")
	pageData["Query"] = query
	if query != "" {
		answer, err := ai.Query(r.Context(), query, state.Data)
		if err != nil {
			log.Printf("Assistant query failed: %v", err)
			pageData["AIError"] = "AI failed: " + err.Error()
		} else {
			pageData["AIResult"] = answer
		}
	}

	httpx.RenderTemplate(w, renderer, "base", pageData)
}

func handleListPartial(w http.ResponseWriter, r *http.Request) {
	state, err := buildViewState(r)
	if err != nil {
		httpx.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httpx.RenderPartial(w, renderer, "transactions-list", basePageData(state))
}

// buildViewState loads the table and applies the filter selection encoded in
// the query string
func buildViewState(r *http.Request) (*viewState, error) {
	data, err := loader.GetOrLoad()
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()

	// A submitted filter form carries applied=1. Without it (first visit, or
	// a bare link) the selection seeds every observed value; with it, absent
	// type/category params are a deliberately emptied selection.
	applied := q.Get("applied") == "1"

	selectedTypes := q["type"]
	if !applied && selectedTypes == nil {
		selectedTypes = data.Types()
	}
	selectedCategories := q["category"]
	if !applied && selectedCategories == nil {
		selectedCategories = data.Categories()
	}

	start, end := httpx.ParseDateRange(q.Get("start"), q.Get("end"), data.MinDate(), data.MaxDate())

	// Amount bounds come from the observed data, rounded to whole euros at
	// the input boundary; the filter itself compares full-precision amounts.
	minBound := int(math.Round(data.MinAbsAmount()))
	maxBound := int(math.Round(data.MaxAbsAmount()))
	minAmount := parseAmountParam(q.Get("min"), float64(minBound))
	maxAmount := parseAmountParam(q.Get("max"), float64(maxBound))

	sel := models.Selection{
		Types:      selectedTypes,
		Categories: selectedCategories,
		Start:      start,
		End:        end,
		MinAmount:  minAmount,
		MaxAmount:  maxAmount,
	}

	filtered := data.Filter(sel)

	return &viewState{
		Data:       data,
		Filtered:   filtered,
		Groups:     filtered.GroupByDay(),
		Types:      buildOptions(data.Types(), selectedTypes),
		Categories: buildOptions(data.Categories(), selectedCategories),
		Selection:  sel,
		MinBound:   minBound,
		MaxBound:   maxBound,
	}, nil
}

// parseAmountParam parses an amount input, rounding to the nearest whole
// euro; anything unparseable falls back to the observed bound
func parseAmountParam(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return math.Round(v)
}

func buildOptions(observed, selected []string) []option {
	selectedSet := make(map[string]bool, len(selected))
	for _, s := range selected {
		selectedSet[s] = true
	}

	options := make([]option, 0, len(observed))
	for _, name := range observed {
		options = append(options, option{Name: name, Checked: selectedSet[name]})
	}
	return options
}

func basePageData(state *viewState) map[string]interface{} {
	return map[string]interface{}{
		"Groups":        state.Groups,
		"FilteredCount": state.Filtered.Len(),
		"Types":         state.Types,
		"Categories":    state.Categories,
		"StartDate":     state.Selection.Start.Format("2006-01-02"),
		"EndDate":       state.Selection.End.Format("2006-01-02"),
		"MinDate":       state.Data.MinDate().Format("2006-01-02"),
		"MaxDate":       state.Data.MaxDate().Format("2006-01-02"),
		"MinAmount":     int(state.Selection.MinAmount),
		"MaxAmount":     int(state.Selection.MaxAmount),
		"MinBound":      state.MinBound,
		"MaxBound":      state.MaxBound,
	}
}
