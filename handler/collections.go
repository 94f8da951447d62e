package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wuroud/islamic-hub/model"
	"github.com/wuroud/islamic-hub/records"
)

// mountCollection registers the CRUD routes of one collection. list, when
// set, replaces the plain listing for GET on the collection root.
func mountCollection[T model.Record[T]](r chi.Router, h *Handler, c *records.Collection[T], list http.HandlerFunc) {
	if list == nil {
		list = func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, c.Get(r.Context()))
		}
	}
	r.Get("/", list)

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var rec T
		if err := readJSON(r, &rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		added, err := c.Add(r.Context(), rec)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, added)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := c.Find(r.Context(), model.ID(chi.URLParam(r, "id")))
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]any
		if err := readJSON(r, &fields); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		updated, err := c.Update(r.Context(), model.ID(chi.URLParam(r, "id")), fields)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		existed, err := c.Delete(r.Context(), model.ID(id))
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "id": id, "existed": existed})
	})
}

// listArticles serves GET /api/articles. q searches, category filters
// (narrowing a search when both are given), featured=n returns the first n.
func (h *Handler) listArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	if query.Has("featured") {
		n := 0
		if v := query.Get("featured"); v != "" {
			var err error
			if n, err = strconv.Atoi(v); err != nil {
				writeError(w, http.StatusBadRequest, "featured must be an integer")
				return
			}
		}
		writeJSON(w, http.StatusOK, h.db.Articles.Featured(ctx, n))
		return
	}

	category := query.Get("category")
	var arts []model.Article
	switch {
	case query.Has("q"):
		arts = h.db.Articles.Search(ctx, query.Get("q"))
		if query.Has("category") {
			kept := arts[:0]
			for _, a := range arts {
				if a.Category == category {
					kept = append(kept, a)
				}
			}
			arts = kept
		}
	case query.Has("category"):
		arts = h.db.Articles.FilterByCategory(ctx, category)
	default:
		arts = h.db.Articles.Get(ctx)
	}
	writeJSON(w, http.StatusOK, arts)
}

func (h *Handler) userByUsername(w http.ResponseWriter, r *http.Request) {
	u, err := h.db.Users.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
