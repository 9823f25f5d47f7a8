// Package export projects the parcelle collection into a single-sheet
// xlsx workbook and hands the file to a share channel when one is
// configured.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/diewo77/go-parcelles/internal/models"
)

// ErrNoRecords rejects an export of an empty collection before any file is
// produced.
var ErrNoRecords = errors.New("export: no records to export")

// ExportError wraps a serialization, write or share failure.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string { return fmt.Sprintf("export: %s: %v", e.Op, e.Err) }
func (e *ExportError) Unwrap() error { return e.Err }

// Sharer hands a produced file to an external share channel.
type Sharer interface {
	Share(ctx context.Context, path string) error
}

const sheetName = "Parcelles"

// headers is the fixed column order. Changing it breaks every consumer of
// the exported workbook.
var headers = []string{
	"#",
	"Numéro de lot",
	"État de parcelle",
	"Nombre de logements",
	"Achevé",
	"En cours",
	"Image",
	"A une image",
	"Dans la galerie",
	"Créé le",
	"ID",
}

// Exporter writes workbooks under dir. A nil sharer leaves the file in
// place and reports its location.
type Exporter struct {
	dir    string
	sharer Sharer
	log    zerolog.Logger

	now func() time.Time
}

func NewExporter(dir string, sharer Sharer, log zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, sharer: sharer, log: log, now: time.Now}
}

// Export builds the workbook from the collection in the given (display)
// order and returns the file path.
func (e *Exporter) Export(ctx context.Context, parcelles []models.Parcelle) (string, error) {
	if len(parcelles) == 0 {
		return "", ErrNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", &ExportError{Op: "create sheet", Err: err}
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return "", &ExportError{Op: "write header", Err: err}
	}
	for i, p := range parcelles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", &ExportError{Op: "address row", Err: err}
		}
		row := projectRow(i, p)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", &ExportError{Op: "write row", Err: err}
		}
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", &ExportError{Op: "create export dir", Err: err}
	}
	name := fmt.Sprintf("parcelles_%s.xlsx", e.now().Format("2006-01-02"))
	path := filepath.Join(e.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", &ExportError{Op: "write workbook", Err: err}
	}

	if e.sharer != nil {
		if err := e.sharer.Share(ctx, path); err != nil {
			return "", &ExportError{Op: "share", Err: err}
		}
	}
	e.log.Info().Str("path", path).Int("records", len(parcelles)).Msg("collection exported")
	return path, nil
}

func projectRow(i int, p models.Parcelle) []any {
	return []any{
		i + 1,
		p.NumeroDeLot,
		p.EtatDeParcelle,
		p.NombreDeLogement,
		p.Acheve,
		p.EnCours,
		p.Image.Name,
		ouiNon(p.HasImage()),
		ouiNon(p.Image.InGallery()),
		p.CreatedAt.Format("02/01/2006 15:04"),
		p.ID,
	}
}

func ouiNon(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}
