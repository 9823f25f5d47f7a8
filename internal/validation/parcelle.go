package validation

import (
	"strings"

	"github.com/diewo77/go-parcelles/internal/models"
)

// ValidateParcelle checks a candidate against the live collection. All
// rules run; every violation is reported, one code per field. Acheve and
// EnCours are free text and never validated.
//
// Lot number comparison is trimmed and case-sensitive.
func ValidateParcelle(candidate models.Parcelle, existing []models.Parcelle) Violations {
	v := Violations{}

	Required("numeroDeLot", candidate.NumeroDeLot, v)
	if _, bad := v["numeroDeLot"]; !bad {
		lot := strings.TrimSpace(candidate.NumeroDeLot)
		for i := range existing {
			if existing[i].LotNumber() == lot {
				v["numeroDeLot"] = "already_exists"
				break
			}
		}
	}

	Required("etatDeParcelle", candidate.EtatDeParcelle, v)

	Required("nombreDeLogement", candidate.NombreDeLogement, v)
	PositiveNumber("nombreDeLogement", candidate.NombreDeLogement, v)

	return v
}
