package http

import (
	"log"
	"net/http"
	"time"

	"txview/internal/templates"
)

// RenderTemplate renders a full page template with data
func RenderTemplate(w http.ResponseWriter, renderer *templates.Renderer, templateName string, data map[string]interface{}) {
	if renderer != nil {
		renderer.Render(w, templateName, data)
	} else {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><h1>" + templateName + "</h1><p>Templates not loaded. Check configuration.</p></body></html>"))
	}
}

// RenderPartial renders a partial template with data
func RenderPartial(w http.ResponseWriter, renderer *templates.Renderer, partialName string, data map[string]interface{}) {
	if renderer != nil {
		renderer.RenderPartial(w, partialName, data)
	} else {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<div><!-- Partial " + partialName + " not loaded --></div>"))
	}
}

// ErrorResponse sends an error response
func ErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	log.Printf("Error: %s (status %d)", message, statusCode)
	http.Error(w, message, statusCode)
}

// ParseDateRange parses start and end date query parameters, defaulting to
// the observed data range. A single supplied date collapses the range to
// that one day.
func ParseDateRange(startStr, endStr string, minDate, maxDate time.Time) (start, end time.Time) {
	if startStr != "" {
		start, _ = time.Parse("2006-01-02", startStr)
	}
	if endStr != "" {
		end, _ = time.Parse("2006-01-02", endStr)
	}

	switch {
	case start.IsZero() && end.IsZero():
		start, end = minDate, maxDate
	case end.IsZero():
		end = start
	case start.IsZero():
		start = end
	}

	if start.After(end) {
		start, end = end, start
	}

	return start, end
}
