package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := NewID(at); got != "1748779200000" {
		t.Errorf("NewID() = %q, want %q", got, "1748779200000")
	}
}

func TestSortForDisplay(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	parcelles := []Parcelle{
		{ID: "a", CreatedAt: t1},
		{ID: "b", CreatedAt: t2},
		{ID: "c", CreatedAt: t3},
	}

	SortForDisplay(parcelles)

	want := []string{"c", "b", "a"}
	for i, id := range want {
		if parcelles[i].ID != id {
			t.Fatalf("position %d: got %q, want %q", i, parcelles[i].ID, id)
		}
	}
}

func TestSortForDisplayTieBreak(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	parcelles := []Parcelle{
		{ID: "100", CreatedAt: at},
		{ID: "200", CreatedAt: at},
	}
	SortForDisplay(parcelles)
	if parcelles[0].ID != "200" {
		t.Errorf("expected newest id first on equal timestamps, got %q", parcelles[0].ID)
	}
}

func TestImageRefJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantKind ImageKind
	}{
		{"tagged file", `{"kind":"file","uri":"/photos/a.jpg","name":"a.jpg"}`, ImageFile},
		{"tagged gallery", `{"kind":"gallery","uri":"/dcim/a.jpg","name":"a.jpg"}`, ImageGallery},
		{"legacy plain", `{"uri":"/photos/a.jpg","name":"a.jpg"}`, ImageFile},
		{"legacy with asset id", `{"uri":"/dcim/a.jpg","name":"a.jpg","assetId":"42"}`, ImageGallery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref ImageRef
			if err := json.Unmarshal([]byte(tt.payload), &ref); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ref.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", ref.Kind, tt.wantKind)
			}
		})
	}
}

func TestParcelleJSONOmitsEmptyImage(t *testing.T) {
	p := Parcelle{ID: "1", NumeroDeLot: "A1", EtatDeParcelle: "Bon", NombreDeLogement: "10"}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"image"`) {
		t.Errorf("expected image omitted, got %s", data)
	}

	p.Image = ImageRef{Kind: ImageFile, URI: "/photos/a.jpg", Name: "a.jpg"}
	data, err = json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"image"`) {
		t.Errorf("expected image present, got %s", data)
	}
}

func TestLotNumberTrims(t *testing.T) {
	p := Parcelle{NumeroDeLot: "  A1  "}
	if got := p.LotNumber(); got != "A1" {
		t.Errorf("LotNumber() = %q, want %q", got, "A1")
	}
}
