// Package crawler implements the catalog crawling pipeline: section
// discovery, pagination, render-stability waiting, per-field extraction
// with sentinel degradation, page-fill retries and a bounded worker pool.
package crawler

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

// Candidate is one way to read a field value out of a product node:
// the first match of Query, taking Attr (or the text content when Attr
// is empty). Join concatenates the text of every match instead.
type Candidate struct {
	Query string
	Attr  string
	Join  bool
}

// FieldRule extracts one product field. Candidates are tried in order;
// the first non-empty trimmed value wins, otherwise the field takes
// Sentinel. Penny, when set, extracts the kopeck part of a split price
// that is recombined as "<rub>,<kop>" with "00" as the default.
type FieldRule struct {
	Candidates []Candidate
	Penny      []Candidate
	Sentinel   string
	ResolveURL bool
}

// FieldSet holds the six extraction rules of the product schema.
type FieldSet struct {
	Name        FieldRule
	Description FieldRule
	Price       FieldRule
	Amount      FieldRule
	Image       FieldRule
	URL         FieldRule
}

// Site is a vendor profile: everything site-specific the pipeline needs.
// The pipeline itself never hard-codes a selector.
type Site struct {
	Name     string
	BaseURL  string
	IndexURL string
	Table    string

	// Node matches one product card on a listing page.
	Node string
	// SectionNode matches section links, used by the waiter during
	// discovery.
	SectionNode string

	Fields FieldSet

	// Sections extracts top-level sections from the catalog index.
	Sections func(doc *goquery.Document) []catalog.Section
	// Subsections extracts child sections from a section page. Nil means
	// the site has a flat catalog.
	Subsections func(doc *goquery.Document) []catalog.Section

	// PageURL builds the URL of the n-th listing page (1-based) for a
	// section.
	PageURL func(sectionURL string, page int) string
}

// ResolveURL prefixes site-relative hrefs with the vendor's base URL.
func (s Site) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + strings.TrimPrefix(href, "/")
}

// ProductStore persists a batch of parsed records under a section name.
// Implementations must be safe for concurrent use by crawl workers.
type ProductStore interface {
	SaveBatch(ctx context.Context, section string, records map[string]catalog.ProductRecord) (int, error)
}
