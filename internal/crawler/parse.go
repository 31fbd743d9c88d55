package crawler

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

// PageResult is the outcome of parsing one listing page.
type PageResult struct {
	// Records is keyed by product URL; duplicates on the same page keep
	// the first occurrence. Records without a usable URL get a
	// synthesized "<pageURL>#prod-<ordinal>" key so they are never
	// silently dropped.
	Records map[string]catalog.ProductRecord
	// Complete means at least one product rendered and every one of them
	// carries six valid fields.
	Complete bool
	// Partial means the page was incomplete and Records holds only the
	// fully valid subset.
	Partial bool
}

// ParsePage extracts every product node of the snapshot and classifies
// the page. An incomplete page with some valid products yields the valid
// subset; a page with none keeps the raw records — partial data beats
// no data, the caller decides whether to retry.
func ParsePage(doc *goquery.Document, site Site, pageURL string) PageResult {
	records := make(map[string]catalog.ProductRecord)
	complete := true
	doc.Find(site.Node).Each(func(i int, node *goquery.Selection) {
		rec := extractRecord(node, site)
		key := rec.ProductURL
		if !catalog.IsValidField(key) {
			key = fmt.Sprintf("%s#prod-%d", pageURL, i)
		}
		if _, seen := records[key]; seen {
			return
		}
		records[key] = rec
		if !rec.FullyValid() {
			complete = false
		}
	})
	if len(records) == 0 {
		return PageResult{Records: records}
	}
	if complete {
		return PageResult{Records: records, Complete: true}
	}

	valid := make(map[string]catalog.ProductRecord, len(records))
	for key, rec := range records {
		if rec.FullyValid() {
			valid[key] = rec
		}
	}
	if len(valid) > 0 {
		return PageResult{Records: valid, Partial: true}
	}
	return PageResult{Records: records}
}
