// Package masterdata manages the reference catalogs that drive risk
// classification: countries, employment types, products and business natures.
package masterdata

import (
	"time"

	"riskgate/internal/assessment"
)

// Catalog identifies one reference data set.
type Catalog string

const (
	CatalogCountry    Catalog = "country"
	CatalogEmployment Catalog = "employment"
	CatalogProduct    Catalog = "product"
	CatalogBusiness   Catalog = "business"
)

// Catalogs lists every catalog in a stable order.
var Catalogs = []Catalog{CatalogCountry, CatalogEmployment, CatalogProduct, CatalogBusiness}

// ValidCatalog reports whether s names a known catalog.
func ValidCatalog(s string) bool {
	switch Catalog(s) {
	case CatalogCountry, CatalogEmployment, CatalogProduct, CatalogBusiness:
		return true
	}
	return false
}

// Entry is one catalog value and its assigned band. Key preserves the
// original casing for display; lookups are case-insensitive.
type Entry struct {
	Key       string              `json:"key"`
	Band      assessment.RiskBand `json:"riskLevel"`
	UpdatedAt time.Time           `json:"updatedAt"`
}
