package handler

import (
	"errors"
	"net/http"

	"github.com/wuroud/islamic-hub/model"
	"github.com/wuroud/islamic-hub/records"
	"github.com/wuroud/islamic-hub/store"
)

// ---------- whole-database operations ----------

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="wuroud-export.json"`)
	writeJSON(w, http.StatusOK, h.db.Export(r.Context()))
}

func (h *Handler) importData(w http.ResponseWriter, r *http.Request) {
	var snap records.Snapshot
	if err := readJSON(r, &snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.db.Import(r.Context(), snap); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.db.Stats(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.db.ResetToDefaults(r.Context()); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.db.ClearAll(r.Context()); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ---------- preferences ----------

type modeResponse struct {
	// Mode is the persisted flag, Active the mode the running store uses.
	Mode            store.Mode `json:"mode"`
	Active          store.Mode `json:"active"`
	RestartRequired bool       `json:"restartRequired"`
}

func (h *Handler) modeResponse(w http.ResponseWriter, r *http.Request) {
	m, err := h.prefs.Mode()
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	active := h.db.Mode()
	writeJSON(w, http.StatusOK, modeResponse{Mode: m, Active: active, RestartRequired: m != active})
}

func (h *Handler) getMode(w http.ResponseWriter, r *http.Request) {
	h.modeResponse(w, r)
}

func (h *Handler) putMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode store.Mode `json:"mode"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.prefs.SetMode(req.Mode); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.log.Info("db mode changed, takes effect on restart", "mode", req.Mode, "active", h.db.Mode())
	h.modeResponse(w, r)
}

func (h *Handler) getTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.prefs.Theme()
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (h *Handler) putTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.prefs.SetTheme(req.Theme); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

// ---------- session ----------

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.prefs.Session()
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "not signed in")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// putSession signs a user in. The admin flag comes from the user's role
// when the username is known, and is false otherwise.
func (h *Handler) putSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	s := model.Session{Username: req.Username}
	u, err := h.db.Users.FindByUsername(r.Context(), req.Username)
	switch {
	case err == nil:
		s.IsAdmin = u.IsAdmin()
	case !errors.Is(err, store.ErrNotFound):
		h.writeStoreError(w, r, err)
		return
	}
	if err := h.prefs.SetSession(s); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.prefs.ClearSession(); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
