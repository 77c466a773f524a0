// Package httpapi exposes the verification service over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/khojlab/tathya/checker"
	"github.com/khojlab/tathya/history"
)

// maxClaimLen bounds the accepted claim size.
const maxClaimLen = 2000

// Handler serves the verification API.
type Handler struct {
	service *checker.Service
	version string
}

// New builds a Handler.
func New(service *checker.Service, version string) *Handler {
	return &Handler{service: service, version: version}
}

// Routes mounts the API endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/verify", h.handleVerify)
	r.Get("/api/health", h.handleHealth)
	r.Get("/api/history", h.handleListHistory)
	r.Get("/api/history/{id}", h.handleGetVerification)
}

type verifyRequest struct {
	Claim string `json:"claim"`
	Lang  string `json:"lang"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	if len(req.Claim) > maxClaimLen {
		writeError(w, http.StatusBadRequest, errors.New("claim too long"))
		return
	}

	outcome, err := h.service.Verify(r.Context(), req.Claim, req.Lang)
	if err != nil {
		if errors.Is(err, checker.ErrEmptyClaim) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	google, fallback := h.service.SearchConfigured()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"search": map[string]bool{
			"google":   google,
			"fallback": fallback,
		},
	})
}

func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListHistory(r.Context(),
		queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []*history.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"verifications": records,
		"count":         len(records),
	})
}

func (h *Handler) handleGetVerification(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetVerification(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
