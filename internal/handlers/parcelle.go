package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/go-parcelles/internal/assets"
	"github.com/diewo77/go-parcelles/internal/export"
	"github.com/diewo77/go-parcelles/internal/httpx"
	"github.com/diewo77/go-parcelles/internal/services"
	"github.com/diewo77/go-parcelles/internal/store"
)

// ParcelleHandler is the HTTP surface the UI calls into. Every failure is
// converted here to a single JSON error; nothing propagates further and
// nothing is retried.
type ParcelleHandler struct {
	Svc *services.ParcelleService
}

func NewParcelleHandler(svc *services.ParcelleService) *ParcelleHandler {
	return &ParcelleHandler{Svc: svc}
}

// List: GET /parcelles — newest first
func (h *ParcelleHandler) List(w http.ResponseWriter, r *http.Request) {
	parcelles, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_parcelles", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": parcelles, "total": len(parcelles)})
}

// Create: POST /parcelles
func (h *ParcelleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	p, violations, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		var assetErr *assets.AssetError
		if errors.As(err, &assetErr) {
			httpx.JSONError(w, http.StatusInternalServerError, "photo_save_failed", nil)
			return
		}
		var storeErr *store.StorageError
		if errors.As(err, &storeErr) {
			httpx.JSONError(w, http.StatusInternalServerError, "storage_failed", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_parcelle", nil)
		return
	}
	if !violations.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", violations)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Delete: DELETE /parcelles/{id} — unknown ids are a no-op, still 204
func (h *ParcelleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "storage_failed", nil)
		return
	}
	httpx.NoContent(w)
}

// Clear: DELETE /parcelles
func (h *ParcelleHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteAll(r.Context()); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "storage_failed", nil)
		return
	}
	httpx.NoContent(w)
}

// Export: POST /parcelles/export
func (h *ParcelleHandler) Export(w http.ResponseWriter, r *http.Request) {
	path, err := h.Svc.Export(r.Context())
	if err != nil {
		if errors.Is(err, export.ErrNoRecords) {
			httpx.JSONError(w, http.StatusConflict, "no_records", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"path": path})
}
