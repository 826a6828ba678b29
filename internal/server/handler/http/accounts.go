// Package http provides HTTP handlers exposing the account collection.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/AccountKeeper/internal/models"
	"github.com/atinyakov/AccountKeeper/internal/service"
)

// AccountService defines the account operations required by the AccountHandler.
type AccountService interface {
	// List returns all accounts in collection order.
	List() []models.Account
	// Get returns the account with the given id or service.ErrNotFound.
	Get(id string) (models.Account, error)
	// Add appends a blank local account.
	Add(ctx context.Context) (models.Account, error)
	// Update merges a partial update into the account with the given id.
	Update(ctx context.Context, id string, patch models.Patch) (models.Account, error)
	// Remove deletes the account with the given id.
	Remove(ctx context.Context, id string) error
	// ValidateByID validates the stored account and keeps its error map.
	ValidateByID(ctx context.Context, id string) (models.Account, bool, error)
}

// AccountHandler handles HTTP requests for the account collection.
type AccountHandler struct {
	Accounts AccountService
}

// ValidateResponse is the body returned by the validate endpoint.
type ValidateResponse struct {
	Valid   bool           `json:"valid"`
	Account models.Account `json:"account"`
}

// List handles GET /api/accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Accounts.List())
}

// Get handles GET /api/accounts/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	acc, err := h.Accounts.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// Add handles POST /api/accounts and answers with the new account.
func (h *AccountHandler) Add(w http.ResponseWriter, r *http.Request) {
	acc, err := h.Accounts.Add(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

// Update handles PATCH /api/accounts/{id}.
// The body is a partial account; absent fields are left as they are.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	acc, err := h.Accounts.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// Remove handles DELETE /api/accounts/{id}.
func (h *AccountHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Validate handles POST /api/accounts/{id}/validate.
func (h *AccountHandler) Validate(w http.ResponseWriter, r *http.Request) {
	acc, ok, err := h.Accounts.ValidateByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: ok, Account: acc})
}

// Labels handles GET /api/labels?text=... and previews how label text is split.
func (h *AccountHandler) Labels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.ParseLabels(r.URL.Query().Get("text")))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
