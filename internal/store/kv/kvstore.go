// Package kv persists the parcelle collection the way the historical app
// did: a single key in a small file-backed key-value document, holding the
// JSON-encoded array of records.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/diewo77/go-parcelles/internal/models"
	"github.com/diewo77/go-parcelles/internal/store"
)

const collectionKey = "parcelles"

// Store is a file-backed key-value store with one interesting key.
type Store struct {
	path string
	log  zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// New returns a store persisting to the given file. The file and its
// directory are created lazily on first save.
func New(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the collection under the parcelles key. A missing file or key
// is an empty collection. A payload that fails to decode is logged and
// loaded as empty, never surfaced as a blocking error.
func (s *Store) Load(ctx context.Context) ([]models.Parcelle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.readDoc()
	if err != nil {
		return nil, &store.StorageError{Op: "load", Err: err}
	}
	raw, ok := doc[collectionKey]
	if !ok {
		return []models.Parcelle{}, nil
	}
	var parcelles []models.Parcelle
	if err := json.Unmarshal(raw, &parcelles); err != nil {
		s.log.Warn().Err(err).Str("key", collectionKey).
			Msg("corrupt collection payload, loading empty")
		return []models.Parcelle{}, nil
	}
	return parcelles, nil
}

// Save replaces the collection. The document is written to a temp file in
// the same directory and renamed over the old one, so readers see either
// the previous state or the new one.
func (s *Store) Save(ctx context.Context, parcelles []models.Parcelle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := s.readDoc()
	if err != nil {
		return &store.StorageError{Op: "save", Err: err}
	}
	if parcelles == nil {
		parcelles = []models.Parcelle{}
	}
	raw, err := json.Marshal(parcelles)
	if err != nil {
		return &store.StorageError{Op: "save", Err: err}
	}
	doc[collectionKey] = raw
	if err := s.writeDoc(doc); err != nil {
		return &store.StorageError{Op: "save", Err: err}
	}
	return nil
}

func (s *Store) Append(ctx context.Context, p models.Parcelle) error {
	parcelles, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.Save(ctx, append(parcelles, p))
}

func (s *Store) RemoveByID(ctx context.Context, id string) error {
	parcelles, err := s.Load(ctx)
	if err != nil {
		return err
	}
	kept := parcelles[:0]
	for _, p := range parcelles {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return s.Save(ctx, kept)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.Save(ctx, []models.Parcelle{})
}

// readDoc loads the whole key-value document. Corruption at the document
// level degrades to an empty document: the next save rewrites the file.
func (s *Store) readDoc() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).
			Msg("corrupt store document, starting empty")
		return map[string]json.RawMessage{}, nil
	}
	return doc, nil
}

func (s *Store) writeDoc(doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
