package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AlexV384/PD-UVP211/internal/browser"
	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

// DiscoverSections builds the flat list of leaf sections to crawl. Top
// sections come from the catalog index; each is probed once for
// subsections, and children are flattened as "Parent → Child". A section
// without children is its own leaf. Leaves are deduplicated by URL.
//
// An unreadable index is fatal for the run; an unreadable section page
// degrades that section to a leaf.
func (c *Crawler) DiscoverSections(sess browser.Session, site Site) ([]catalog.Section, error) {
	doc, err := c.renderSectionPage(sess, site, site.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("loading catalog index: %w", err)
	}
	tops := site.Sections(doc)
	if len(tops) == 0 {
		return nil, fmt.Errorf("no sections found at %s", site.IndexURL)
	}

	seen := make(map[string]struct{})
	var leaves []catalog.Section
	add := func(s catalog.Section) {
		if _, dup := seen[s.URL]; dup {
			return
		}
		seen[s.URL] = struct{}{}
		leaves = append(leaves, s)
	}

	for _, top := range tops {
		if site.Subsections == nil {
			add(top)
			continue
		}
		subDoc, err := c.renderSectionPage(sess, site, top.URL)
		if err != nil {
			c.log.Error("probing subsections of %q: %v", top.Name, err)
			add(top)
			continue
		}
		subs := site.Subsections(subDoc)
		if len(subs) == 0 {
			add(top)
			continue
		}
		for _, sub := range subs {
			add(catalog.Section{Name: top.Name + " → " + sub.Name, URL: sub.URL})
		}
	}
	return leaves, nil
}

func (c *Crawler) renderSectionPage(sess browser.Session, site Site, url string) (*goquery.Document, error) {
	if err := sess.Navigate(url); err != nil {
		return nil, err
	}
	WaitStable(sess, site.SectionNode, c.cfg.Wait)
	html, err := sess.HTML()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
