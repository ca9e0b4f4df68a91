// Package assets loads the optional presentation assets: the stylesheet that
// gets inlined into the page and the SVG logo that is base64-inlined into the
// top banner. Both degrade gracefully when missing.
package assets

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"log"
	"os"
)

// Assets holds the loaded presentation assets
type Assets struct {
	CSS      string
	LogoB64  string
	Warnings []string
}

// Load reads the stylesheet and logo. A missing stylesheet produces a
// warning shown in the page; a missing logo just renders no logo.
func Load(styleFile, logoFile string) *Assets {
	a := &Assets{}

	css, err := os.ReadFile(styleFile)
	if err != nil {
		a.Warnings = append(a.Warnings, fmt.Sprintf("⚠️ %s not found.", styleFile))
		log.Printf("Warning: could not load stylesheet %s: %v", styleFile, err)
	} else {
		a.CSS = string(css)
	}

	logo, err := os.ReadFile(logoFile)
	if err != nil {
		log.Printf("Warning: could not load logo %s: %v", logoFile, err)
	} else {
		a.LogoB64 = base64.StdEncoding.EncodeToString(logo)
	}

	return a
}

// LogoURL returns the logo as a data URI ready for an img src attribute, or
// an empty URL when no logo was loaded
func (a *Assets) LogoURL() template.URL {
	if a.LogoB64 == "" {
		return ""
	}
	return template.URL("data:image/svg+xml;base64," + a.LogoB64)
}
