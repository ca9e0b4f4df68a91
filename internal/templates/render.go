package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// Renderer handles template rendering
type Renderer struct {
	templates *template.Template
	debug     bool
	baseDir   string
}

// New creates a new template renderer
func New(templateDir string, debug bool) (*Renderer, error) {
	r := &Renderer{
		debug:   debug,
		baseDir: templateDir,
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

// categoryIcons maps known category labels to a display icon. The table is
// closed; anything else falls through to the generic card icon.
var categoryIcons = map[string]string{
	"Groceries":       "🛍️",
	"Subscription":    "📆",
	"Transport":       "🚇",
	"Bar":             "🍺",
	"Restaurant":      "🍽️",
	"Entertainment":   "🎮",
	"Online Purchase": "💻",
	"Utilities":       "💡",
	"Income":          "💰",
}

// defaultIcon is used for categories outside the table
const defaultIcon = "💳"

// getFuncMap returns the template function map
func getFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatAmount":    FormatAmount,
		"amountClass":     AmountClass,
		"categoryIcon":    CategoryIcon,
		"formatGroupDate": FormatGroupDate,
		"formatDate":      formatDate,
		"markdown":        markdown,
		"safeHTML":        safeHTML,
		"safeCSS":         safeCSS,
		"lower":           strings.ToLower,
		"contains":        strings.Contains,
		"join":            strings.Join,
		"now":             time.Now,
	}
}

// loadTemplates parses all templates under the layouts/pages/partials subdirs
func (r *Renderer) loadTemplates() error {
	funcMap := getFuncMap()
	tmpl := template.New("").Funcs(funcMap)

	var templateFiles []string
	for _, subdir := range []string{"layouts", "pages", "partials"} {
		subPattern := filepath.Join(r.baseDir, subdir, "*.html")
		matches, err := filepath.Glob(subPattern)
		if err != nil {
			return fmt.Errorf("error globbing %s: %w", subPattern, err)
		}
		templateFiles = append(templateFiles, matches...)
	}

	if len(templateFiles) == 0 {
		return fmt.Errorf("no template files found in %s", r.baseDir)
	}

	for _, file := range templateFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", file, err)
		}
		if _, err := tmpl.New(filepath.Base(file)).Parse(string(content)); err != nil {
			return fmt.Errorf("parsing template %s: %w", file, err)
		}
	}

	r.templates = tmpl
	log.Printf("Templates loaded successfully: %d files", len(templateFiles))
	return nil
}

// Reload reloads templates (useful for development)
func (r *Renderer) Reload() error {
	return r.loadTemplates()
}

// Render renders a full page with the base layout
func (r *Renderer) Render(w http.ResponseWriter, name string, data interface{}) error {
	// In debug mode, reload templates on each request
	if r.debug {
		if err := r.loadTemplates(); err != nil {
			log.Printf("Error reloading templates: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	return nil
}

// RenderPartial renders a partial template (no base layout)
func (r *Renderer) RenderPartial(w http.ResponseWriter, name string, data interface{}) error {
	if r.debug {
		if err := r.loadTemplates(); err != nil {
			log.Printf("Error reloading templates: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering partial %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	return nil
}

// RenderToString renders a template to a string
func (r *Renderer) RenderToString(name string, data interface{}) (string, error) {
	var buf strings.Builder
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExecuteTemplate executes a template to a writer
func (r *Renderer) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Template functions

// FormatAmount renders a signed amount as {sign}{abs rounded to 2dp}€, with
// a leading + only for strictly positive amounts and trailing zeros
// trimmed, so -45.6 renders as 45.6€ and 783.333 as +783.33€.
func FormatAmount(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	rounded := math.Round(math.Abs(v)*100) / 100
	return sign + strconv.FormatFloat(rounded, 'f', -1, 64) + "€"
}

// AmountClass picks the display color class: one for positive amounts,
// another for everything else (zero included)
func AmountClass(v float64) string {
	if v > 0 {
		return "amount-positive"
	}
	return "amount-negative"
}

// CategoryIcon resolves a display icon for a category label
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return defaultIcon
}

// FormatGroupDate renders a date group header, e.g. "Tuesday, 04 March 2025"
func FormatGroupDate(t time.Time) string {
	return t.Format("Monday, 02 January 2006")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// markdown converts the assistant's markdown reply to HTML. The reply is
// displayed verbatim: no validation of the bullet-list contract.
func markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

func safeCSS(s string) template.CSS {
	return template.CSS(s)
}
