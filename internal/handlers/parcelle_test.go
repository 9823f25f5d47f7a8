package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/diewo77/go-parcelles/internal/assets"
	"github.com/diewo77/go-parcelles/internal/export"
	"github.com/diewo77/go-parcelles/internal/models"
	"github.com/diewo77/go-parcelles/internal/services"
	"github.com/diewo77/go-parcelles/internal/store/kv"
)

func setupHandler(t *testing.T) *ParcelleHandler {
	t.Helper()
	dir := t.TempDir()
	st := kv.New(filepath.Join(dir, "store.json"), zerolog.Nop())
	manager := assets.NewManager(
		filepath.Join(dir, "photos"),
		filepath.Join(dir, "cache"),
		assets.SaveToAppDir,
		assets.StaticPermissions{Granted: true},
		assets.NewDirLibrary(filepath.Join(dir, "gallery")),
		zerolog.Nop(),
	)
	exporter := export.NewExporter(filepath.Join(dir, "exports"), nil, zerolog.Nop())
	return NewParcelleHandler(services.NewParcelleService(st, manager, exporter, zerolog.Nop()))
}

func createParcelle(t *testing.T, h *ParcelleHandler, lot string) models.Parcelle {
	t.Helper()
	body := `{"numeroDeLot":"` + lot + `","etatDeParcelle":"Bon","nombreDeLogement":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/parcelles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var p models.Parcelle
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return p
}

func TestCreateAndListJSON(t *testing.T) {
	h := setupHandler(t)
	created := createParcelle(t, h, "A1")
	if created.ID == "" {
		t.Fatalf("missing id in response")
	}

	req := httptest.NewRequest(http.MethodGet, "/parcelles", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var list struct {
		Items []models.Parcelle `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 1 || list.Items[0].NumeroDeLot != "A1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCreateValidationFailed(t *testing.T) {
	h := setupHandler(t)
	createParcelle(t, h, "A1")

	body := `{"numeroDeLot":"A1","etatDeParcelle":"","nombreDeLogement":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/parcelles", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" {
		t.Errorf("error = %q", resp.Error)
	}
	if resp.Details["numeroDeLot"] != "already_exists" ||
		resp.Details["etatDeParcelle"] != "required" ||
		resp.Details["nombreDeLogement"] != "must_be_positive" {
		t.Errorf("unexpected details: %v", resp.Details)
	}
}

func TestCreateInvalidJSON(t *testing.T) {
	h := setupHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/parcelles", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestDelete(t *testing.T) {
	h := setupHandler(t)
	created := createParcelle(t, h, "A1")

	req := httptest.NewRequest(http.MethodDelete, "/parcelles/"+created.ID, nil)
	req.SetPathValue("id", created.ID)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}

	// Unknown id keeps no-op semantics
	req = httptest.NewRequest(http.MethodDelete, "/parcelles/ghost", nil)
	req.SetPathValue("id", "ghost")
	w = httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on unknown id got %d", w.Code)
	}
}

func TestClear(t *testing.T) {
	h := setupHandler(t)
	createParcelle(t, h, "A1")
	createParcelle(t, h, "B2")

	req := httptest.NewRequest(http.MethodDelete, "/parcelles", nil)
	w := httptest.NewRecorder()
	h.Clear(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/parcelles", nil)
	listW := httptest.NewRecorder()
	h.List(listW, listReq)
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 0 {
		t.Fatalf("expected empty collection, got %d", list.Total)
	}
}

func TestExportEmptyIsConflict(t *testing.T) {
	h := setupHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/parcelles/export", nil)
	w := httptest.NewRecorder()
	h.Export(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestExportReturnsPath(t *testing.T) {
	h := setupHandler(t)
	createParcelle(t, h, "A1")

	req := httptest.NewRequest(http.MethodPost, "/parcelles/export", nil)
	w := httptest.NewRecorder()
	h.Export(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasSuffix(resp.Path, ".xlsx") {
		t.Fatalf("unexpected path %q", resp.Path)
	}
}
