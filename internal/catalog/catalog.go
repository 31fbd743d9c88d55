// Package catalog defines the product schema shared by the crawler, the
// storage sink and the serving layer.
package catalog

import "strings"

// Section is a leaf catalog section discovered on a vendor site. Name may
// carry a flattened hierarchy path such as "Бумага → Форматная бумага".
type Section struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ProductRecord is one scraped catalog entry. Every field always holds
// either extracted content or the vendor profile's sentinel phrase —
// downstream completeness checks test field content, never presence.
// ProductURL is the natural identity: two records with the same URL are
// the same product.
type ProductRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
	ImageURL    string `json:"image_url"`
	ProductURL  string `json:"product_url"`
}

// PersistedProduct is the durable form of a record: the record plus the
// display name of the section it was found in.
type PersistedProduct struct {
	Category string `json:"category"`
	ProductRecord
}

// OutOfStockMarker flags records that must never be persisted. Matched
// case-insensitively as a substring of the amount field.
const OutOfStockMarker = "нет в наличии"

// Sentinel phrases that mark a failed extraction. A field containing one
// of these (case-insensitively) is invalid regardless of the vendor that
// produced it.
var invalidMarkers = []string{
	"не указан",
	"не найден",
	"неизвестн",
	"нет описания",
	"без названия",
}

// Values that are invalid only when they make up the whole field.
var invalidValues = map[string]struct{}{
	"":      {},
	"нет":   {},
	"0":     {},
	"0 шт.": {},
}

// IsValidField reports whether a field holds meaningful content rather
// than a sentinel. The check is case-insensitive and substring-based
// against the sentinel set.
func IsValidField(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if _, bad := invalidValues[v]; bad {
		return false
	}
	for _, marker := range invalidMarkers {
		if strings.Contains(v, marker) {
			return false
		}
	}
	return true
}

// FullyValid reports whether all six fields of the record hold meaningful
// content.
func (r ProductRecord) FullyValid() bool {
	for _, f := range []string{r.Name, r.Description, r.Price, r.Amount, r.ImageURL, r.ProductURL} {
		if !IsValidField(f) {
			return false
		}
	}
	return true
}

// OutOfStock reports whether the record's stock text marks it as
// unavailable.
func (r ProductRecord) OutOfStock() bool {
	return strings.Contains(strings.ToLower(r.Amount), OutOfStockMarker)
}
