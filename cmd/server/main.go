package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"txview/internal/assets"
	"txview/internal/config"
	"txview/internal/handlers/viewer"
	"txview/internal/services/assistant"
	"txview/internal/services/dataloader"
	"txview/internal/templates"
	"txview/internal/version"
)

var (
	cfg      *config.Config
	loader   *dataloader.DataLoader
	renderer *templates.Renderer
)

func main() {
	cfg = config.Load()
	log.Printf("Starting Transaction Viewer on %s", cfg.ListenAddr)
	log.Printf("Transactions file: %s", cfg.CSVFile)
	if msg := version.Get().Check(); msg != "" {
		log.Printf("%s", msg)
	}

	if err := SetupDependencies(cfg); err != nil {
		log.Fatalf("Setup failed: %v", err)
	}

	r := SetupRouter()

	log.Printf("Server starting on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}

// SetupDependencies wires the loader, renderer, assistant and assets from
// the configuration
func SetupDependencies(c *config.Config) error {
	cfg = c
	loader = dataloader.New(c.CSVFile)

	var err error
	renderer, err = templates.New(c.TemplatesDirectory, c.Debug)
	if err != nil {
		log.Printf("Warning: could not load templates: %v", err)
		renderer = nil
	}

	if c.AIKey == "" {
		log.Printf("Warning: DEEPSEEK_API_KEY not set; assistant queries will fail")
	}
	ai := assistant.New(c.AIBaseURL, c.AIKey, c.AIModel, c.AITimeout)

	page := assets.Load(c.StyleFile, c.LogoFile)

	viewer.Initialize(c, loader, renderer, ai, page)
	return nil
}

// SetupRouter builds the chi router with middleware and all routes
func SetupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	fileServer := http.FileServer(http.Dir(cfg.StaticDirectory))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/transactions", http.StatusTemporaryRedirect)
	})

	viewer.RegisterRoutes(r)

	r.Get("/api/health", handleHealth)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"version": version.Get(),
	})
}
