package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/diewo77/go-parcelles/internal/assets"
	"github.com/diewo77/go-parcelles/internal/export"
	"github.com/diewo77/go-parcelles/internal/models"
	"github.com/diewo77/go-parcelles/internal/store"
	"github.com/diewo77/go-parcelles/internal/validation"
)

// CreateInput is the form payload for a new parcelle. PhotoPath points at
// the transient capture; it is consumed once and never retained unless the
// save succeeds.
type CreateInput struct {
	NumeroDeLot      string `json:"numeroDeLot"`
	EtatDeParcelle   string `json:"etatDeParcelle"`
	NombreDeLogement string `json:"nombreDeLogement"`
	Acheve           string `json:"acheve"`
	EnCours          string `json:"enCours"`
	PhotoPath        string `json:"photoPath"`
}

// ParcelleService is the operation boundary: every user action maps to one
// method, runs to completion or failure, and is never retried here.
//
// The source app serialized mutations by disabling the triggering control;
// an HTTP surface cannot rely on that, so one mutex serializes mutating
// operations instead. The store itself stays lock-free.
type ParcelleService struct {
	mu       sync.Mutex
	store    store.Store
	assets   *assets.Manager
	exporter *export.Exporter
	log      zerolog.Logger

	now func() time.Time
}

func NewParcelleService(st store.Store, am *assets.Manager, ex *export.Exporter, log zerolog.Logger) *ParcelleService {
	return &ParcelleService{store: st, assets: am, exporter: ex, log: log, now: time.Now}
}

// Create validates the input against the live collection, saves the photo
// if one was captured, and appends the record. Violations are returned,
// never thrown. A gallery permission denial degrades to saving the record
// without a photo. A storage failure after a successful photo save does
// not remove the saved photo.
func (s *ParcelleService) Create(ctx context.Context, in CreateInput) (models.Parcelle, validation.Violations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Load(ctx)
	if err != nil {
		return models.Parcelle{}, nil, err
	}

	p := models.Parcelle{
		NumeroDeLot:      in.NumeroDeLot,
		EtatDeParcelle:   in.EtatDeParcelle,
		NombreDeLogement: in.NombreDeLogement,
		Acheve:           in.Acheve,
		EnCours:          in.EnCours,
	}
	if v := validation.ValidateParcelle(p, existing); !v.Empty() {
		return models.Parcelle{}, v, nil
	}

	if in.PhotoPath != "" {
		ref, err := s.assets.SavePhoto(ctx, in.PhotoPath)
		switch {
		case errors.Is(err, assets.ErrPermissionDenied):
			s.log.Warn().Str("photo", in.PhotoPath).Msg("gallery access denied, record saved without photo")
		case err != nil:
			return models.Parcelle{}, nil, err
		default:
			p.Image = ref
		}
	}

	created := s.now().UTC()
	p.ID = models.NewID(created)
	p.CreatedAt = created

	if err := s.store.Append(ctx, p); err != nil {
		return models.Parcelle{}, nil, err
	}
	s.log.Info().Str("id", p.ID).Str("lot", p.LotNumber()).Msg("parcelle created")
	return p, nil, nil
}

// List returns the collection newest first.
func (s *ParcelleService) List(ctx context.Context) ([]models.Parcelle, error) {
	parcelles, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	models.SortForDisplay(parcelles)
	return parcelles, nil
}

// Delete removes one record, then cleans up its photo. Cleanup errors are
// logged inside the asset manager and never join this error channel.
// Deleting an unknown id is a no-op.
func (s *ParcelleService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parcelles, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	var ref models.ImageRef
	for i := range parcelles {
		if parcelles[i].ID == id {
			ref = parcelles[i].Image
			break
		}
	}
	if err := s.store.RemoveByID(ctx, id); err != nil {
		return err
	}
	if !ref.None() {
		s.assets.Cleanup(ctx, ref)
	}
	return nil
}

// DeleteAll clears the store, then cleans up every referenced photo.
func (s *ParcelleService) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parcelles, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	refs := make([]models.ImageRef, 0, len(parcelles))
	for _, p := range parcelles {
		if p.HasImage() {
			refs = append(refs, p.Image)
		}
	}
	s.assets.CleanupAll(ctx, refs)
	s.log.Info().Int("removed", len(parcelles)).Msg("collection cleared")
	return nil
}

// Export writes the collection, in display order, to a workbook.
func (s *ParcelleService) Export(ctx context.Context) (string, error) {
	parcelles, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	return s.exporter.Export(ctx, parcelles)
}
