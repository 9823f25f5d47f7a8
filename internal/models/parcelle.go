package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ImageKind discriminates how a parcelle photo is persisted.
type ImageKind string

const (
	// ImageNone means the record carries no photo.
	ImageNone ImageKind = ""
	// ImageFile is a photo copied into the app-owned photos directory.
	ImageFile ImageKind = "file"
	// ImageGallery is a photo registered with the shared media gallery.
	ImageGallery ImageKind = "gallery"
)

// ImageRef points at a parcelle photo. The zero value means "no photo".
//
// Historical payloads carried a bare {uri, name, assetId?} object with no
// discriminator; UnmarshalJSON infers the kind for those.
type ImageRef struct {
	Kind    ImageKind `json:"kind,omitempty"`
	URI     string    `json:"uri,omitempty"`
	Name    string    `json:"name,omitempty"`
	AssetID string    `json:"assetId,omitempty"`
}

// None reports whether the reference is empty.
func (r ImageRef) None() bool { return r.Kind == ImageNone && r.URI == "" && r.Name == "" }

// InGallery reports whether the photo was registered with the media gallery.
func (r ImageRef) InGallery() bool { return r.Kind == ImageGallery }

// UnmarshalJSON accepts both the tagged shape and the legacy untagged one.
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	type alias ImageRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = ImageRef(a)
	if r.Kind == ImageNone && !r.None() {
		// Legacy payload: an asset id marks a gallery copy, anything else
		// is a plain file reference.
		if r.AssetID != "" {
			r.Kind = ImageGallery
		} else {
			r.Kind = ImageFile
		}
	}
	return nil
}

// Parcelle is a tracked land lot. NombreDeLogement stays a string on
// purpose: the value is user input, validated but stored as entered.
type Parcelle struct {
	ID               string    `json:"id"`
	NumeroDeLot      string    `json:"numeroDeLot"`
	EtatDeParcelle   string    `json:"etatDeParcelle"`
	NombreDeLogement string    `json:"nombreDeLogement"`
	Acheve           string    `json:"acheve,omitempty"`
	EnCours          string    `json:"enCours,omitempty"`
	Image            ImageRef  `json:"image,omitzero"`
	CreatedAt        time.Time `json:"createdAt"`
}

// HasImage reports whether the record references a photo.
func (p *Parcelle) HasImage() bool { return !p.Image.None() }

// LotNumber returns the trimmed lot number used for uniqueness checks.
func (p *Parcelle) LotNumber() string { return strings.TrimSpace(p.NumeroDeLot) }

// NewID derives a record id from the creation instant, in milliseconds.
func NewID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// SortForDisplay orders records newest first (descending CreatedAt, ties
// broken by id). Storage order stays insertion order; callers sort a copy
// of what the store returned.
func SortForDisplay(parcelles []Parcelle) {
	sort.SliceStable(parcelles, func(i, j int) bool {
		if parcelles[i].CreatedAt.Equal(parcelles[j].CreatedAt) {
			return parcelles[i].ID > parcelles[j].ID
		}
		return parcelles[i].CreatedAt.After(parcelles[j].CreatedAt)
	})
}
