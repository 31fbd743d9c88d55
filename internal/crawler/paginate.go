package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AlexV384/PD-UVP211/internal/browser"
	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

// parseCurrent snapshots the session's DOM and parses it.
func (c *Crawler) parseCurrent(sess browser.Session, site Site, pageURL string) (PageResult, error) {
	html, err := sess.HTML()
	if err != nil {
		return PageResult{}, fmt.Errorf("snapshotting page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PageResult{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	return ParsePage(doc, site, pageURL), nil
}

// fillPage loads one listing page and works it until it parses complete
// or the retry budget runs out. Each retry scrolls once more and re-waits
// with the shorter retry window, then re-extracts from a fresh snapshot.
// The last result is accepted as-is; incompleteness is not an error.
func (c *Crawler) fillPage(sess browser.Session, site Site, url string) (PageResult, error) {
	if err := sess.Navigate(url); err != nil {
		return PageResult{}, fmt.Errorf("navigating to %s: %w", url, err)
	}
	WaitStable(sess, site.Node, c.cfg.Wait)
	EnsureImages(sess, site.Node, c.cfg.Wait)

	res, err := c.parseCurrent(sess, site, url)
	if err != nil {
		return res, err
	}
	for attempt := 1; attempt <= c.cfg.RetryBudget && !res.Complete; attempt++ {
		sess.ScrollBy(c.cfg.RetryWait.ScrollStep)
		WaitStable(sess, site.Node, c.cfg.RetryWait)
		EnsureImages(sess, site.Node, c.cfg.RetryWait)
		res, err = c.parseCurrent(sess, site, url)
		if err != nil {
			return res, err
		}
	}
	// A degraded page gets its markup dumped next to the log so the
	// selector profile can be replayed against it. Empty pages are the
	// normal pagination terminator and stay out of the dumps.
	if !res.Complete && len(res.Records) > 0 {
		if html, htmlErr := sess.HTML(); htmlErr == nil {
			c.log.Html(html, url, "page accepted incomplete after retries")
		}
	}
	return res, nil
}

// crawlSection walks a section's listing pages starting at 1 and stops
// at the first page that renders no products. A failed batch write loses
// that page only; earlier pages already sit in their own transactions.
func (c *Crawler) crawlSection(ctx context.Context, sess browser.Session, site Site, section catalog.Section) (int, error) {
	saved := 0
	for page := 1; ; page++ {
		url := site.PageURL(section.URL, page)
		res, err := c.fillPage(sess, site, url)
		if err != nil {
			return saved, fmt.Errorf("page %d of %q: %w", page, section.Name, err)
		}
		if len(res.Records) == 0 {
			break
		}
		if !res.Complete {
			c.log.Info("accepting incomplete page %d of %q with %d records (partial=%v)",
				page, section.Name, len(res.Records), res.Partial)
		}
		n, err := c.store.SaveBatch(ctx, section.Name, res.Records)
		if err != nil {
			c.log.Error("saving page %d of %q: %v", page, section.Name, err)
			continue
		}
		saved += n
	}
	return saved, nil
}
