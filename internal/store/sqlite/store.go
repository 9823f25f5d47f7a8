// Package sqlite persists the parcelle collection in an embedded sqlite
// database. A surrogate sequence column keeps insertion order, which the
// record ids (creation-instant derived) cannot guarantee on their own.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/go-parcelles/internal/models"
	"github.com/diewo77/go-parcelles/internal/store"
)

// row is the persistence shape of a Parcelle.
type row struct {
	Seq              uint   `gorm:"primaryKey;autoIncrement"`
	RecordID         string `gorm:"uniqueIndex;size:64;not null"`
	NumeroDeLot      string `gorm:"size:100;not null"`
	EtatDeParcelle   string `gorm:"size:255;not null"`
	NombreDeLogement string `gorm:"size:50;not null"`
	Acheve           string `gorm:"size:255"`
	EnCours          string `gorm:"size:255"`
	ImageKind        string `gorm:"size:20"`
	ImageURI         string `gorm:"type:text"`
	ImageName        string `gorm:"size:255"`
	ImageAssetID     string `gorm:"size:128"`
	CreatedAt        time.Time
}

func (row) TableName() string { return "parcelles" }

// Open connects to the database file, creating its directory if needed.
func Open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
}

// Migrate creates or updates the parcelles table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&row{})
}

// Store is the sqlite-backed collection store.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Load(ctx context.Context) ([]models.Parcelle, error) {
	var rows []row
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, &store.StorageError{Op: "load", Err: err}
	}
	parcelles := make([]models.Parcelle, 0, len(rows))
	for _, r := range rows {
		parcelles = append(parcelles, r.toModel())
	}
	return parcelles, nil
}

// Save replaces the table contents in one transaction.
func (s *Store) Save(ctx context.Context, parcelles []models.Parcelle) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&row{}).Error; err != nil {
			return err
		}
		if len(parcelles) == 0 {
			return nil
		}
		rows := make([]row, 0, len(parcelles))
		for _, p := range parcelles {
			rows = append(rows, fromModel(p))
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return &store.StorageError{Op: "save", Err: err}
	}
	return nil
}

func (s *Store) Append(ctx context.Context, p models.Parcelle) error {
	r := fromModel(p)
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return &store.StorageError{Op: "append", Err: err}
	}
	return nil
}

func (s *Store) RemoveByID(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("record_id = ?", id).Delete(&row{}).Error; err != nil {
		return &store.StorageError{Op: "remove", Err: err}
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&row{}).Error; err != nil {
		return &store.StorageError{Op: "clear", Err: err}
	}
	return nil
}

func (r row) toModel() models.Parcelle {
	return models.Parcelle{
		ID:               r.RecordID,
		NumeroDeLot:      r.NumeroDeLot,
		EtatDeParcelle:   r.EtatDeParcelle,
		NombreDeLogement: r.NombreDeLogement,
		Acheve:           r.Acheve,
		EnCours:          r.EnCours,
		Image: models.ImageRef{
			Kind:    models.ImageKind(r.ImageKind),
			URI:     r.ImageURI,
			Name:    r.ImageName,
			AssetID: r.ImageAssetID,
		},
		CreatedAt: r.CreatedAt,
	}
}

func fromModel(p models.Parcelle) row {
	return row{
		RecordID:         p.ID,
		NumeroDeLot:      p.NumeroDeLot,
		EtatDeParcelle:   p.EtatDeParcelle,
		NombreDeLogement: p.NombreDeLogement,
		Acheve:           p.Acheve,
		EnCours:          p.EnCours,
		ImageKind:        string(p.Image.Kind),
		ImageURI:         p.Image.URI,
		ImageName:        p.Image.Name,
		ImageAssetID:     p.Image.AssetID,
		CreatedAt:        p.CreatedAt,
	}
}
