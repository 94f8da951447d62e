// Package handler provides the HTTP API in front of the record store.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wuroud/islamic-hub/records"
	"github.com/wuroud/islamic-hub/store"
)

// Options configures the HTTP surface.
type Options struct {
	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string
	// RateLimit is requests per second per client, 0 disables limiting.
	RateLimit float64
	RateBurst int
	Logger    *slog.Logger
}

// Handler holds the server dependencies and registers routes.
type Handler struct {
	db     *records.DB
	prefs  *records.Preferences
	log    *slog.Logger
	router chi.Router
}

// New creates a Handler and wires up all routes.
func New(db *records.DB, prefs *records.Preferences, opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{db: db, prefs: prefs, log: log, router: chi.NewRouter()}
	h.routes(opts)
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes(opts Options) {
	r := h.router
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(chimw.Recoverer)
	r.Use(cors(opts.AllowedOrigins))
	if opts.RateLimit > 0 {
		r.Use(newRateLimiter(opts.RateLimit, opts.RateBurst, h.log).middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health / status
	r.Get("/", h.root)
	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			mountCollection(r, h, h.db.Articles.Collection, h.listArticles)
		})
		r.Route("/blogs", func(r chi.Router) {
			mountCollection(r, h, h.db.Blogs, nil)
		})
		r.Route("/categories", func(r chi.Router) {
			mountCollection(r, h, h.db.Categories, nil)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/by-username/{username}", h.userByUsername)
			mountCollection(r, h, h.db.Users.Collection, nil)
		})

		// Whole-database operations
		r.Get("/export", h.export)
		r.Post("/import", h.importData)
		r.Get("/stats", h.stats)
		r.Post("/reset", h.reset)
		r.Delete("/data", h.clearAll)

		// Preferences and session
		r.Get("/preferences/mode", h.getMode)
		r.Put("/preferences/mode", h.putMode)
		r.Get("/preferences/theme", h.getTheme)
		r.Put("/preferences/theme", h.putTheme)
		r.Get("/session", h.getSession)
		r.Put("/session", h.putSession)
		r.Delete("/session", h.deleteSession)
	})
}

// ---------- helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// readJSON decodes the request body into v, rejecting fields v does not
// declare. Numbers in untyped values stay json.Number.
func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeStoreError maps store and validation errors to responses.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, records.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error("request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ---------- status endpoints ----------

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Wuroud Islamic Hub",
		"mode":    string(h.db.Mode()),
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
