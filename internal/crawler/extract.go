package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

// extractCandidates returns the first non-empty value the candidate list
// yields under node, or "".
func extractCandidates(node *goquery.Selection, candidates []Candidate) string {
	for _, c := range candidates {
		sel := node.Find(c.Query)
		if sel.Length() == 0 {
			continue
		}
		var value string
		switch {
		case c.Join:
			var parts []string
			sel.Each(func(_ int, s *goquery.Selection) {
				if t := strings.TrimSpace(s.Text()); t != "" {
					parts = append(parts, t)
				}
			})
			value = strings.Join(parts, " ")
		case c.Attr != "":
			value, _ = sel.First().Attr(c.Attr)
		default:
			value = sel.First().Text()
		}
		value = strings.Join(strings.Fields(value), " ")
		if value != "" {
			return value
		}
	}
	return ""
}

// extractField applies a rule to a product node. A miss is data, not an
// error: the field takes the rule's sentinel and extraction moves on.
func extractField(node *goquery.Selection, rule FieldRule, site Site) string {
	value := extractCandidates(node, rule.Candidates)
	if value == "" {
		return rule.Sentinel
	}
	if rule.Penny != nil {
		penny := extractCandidates(node, rule.Penny)
		if penny == "" {
			penny = "00"
		}
		value = value + "," + penny
	}
	if rule.ResolveURL {
		value = site.ResolveURL(value)
	}
	return value
}

// extractRecord builds one product record out of a product node.
func extractRecord(node *goquery.Selection, site Site) catalog.ProductRecord {
	return catalog.ProductRecord{
		Name:        extractField(node, site.Fields.Name, site),
		Description: extractField(node, site.Fields.Description, site),
		Price:       extractField(node, site.Fields.Price, site),
		Amount:      extractField(node, site.Fields.Amount, site),
		ImageURL:    extractField(node, site.Fields.Image, site),
		ProductURL:  extractField(node, site.Fields.URL, site),
	}
}
