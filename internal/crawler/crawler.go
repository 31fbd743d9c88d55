package crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlexV384/PD-UVP211/internal/browser"
	"github.com/AlexV384/PD-UVP211/internal/catalog"
	"github.com/AlexV384/PD-UVP211/internal/logging"
)

// Config tunes the pipeline. Zero values are filled with defaults by New.
type Config struct {
	Workers     int
	RetryBudget int
	CheckRobots bool
	UserAgent   string
	Wait        WaitConfig
	RetryWait   WaitConfig
}

// Crawler runs the full pipeline for one vendor site: discovery, a
// bounded worker pool over sections, pagination within each section.
type Crawler struct {
	browser browser.Browser
	store   ProductStore
	log     *logging.Logger
	cfg     Config
}

func New(b browser.Browser, store ProductStore, log *logging.Logger, cfg Config) *Crawler {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Crawler{browser: b, store: store, log: log, cfg: cfg}
}

// SectionResult is one section's outcome within a crawl report.
type SectionResult struct {
	Section catalog.Section
	Saved   int
	Err     error
}

// Report aggregates a full site crawl.
type Report struct {
	Site     string
	Sections []SectionResult
	Saved    int
	Failed   int
}

// Run crawls the whole site. Section failures (panics included) are
// isolated per task and reflected in the report; only robots refusal,
// session setup and discovery failures abort the run.
func (c *Crawler) Run(ctx context.Context, site Site) (*Report, error) {
	if c.cfg.CheckRobots && !AllowedByRobots(site.BaseURL, c.cfg.UserAgent) {
		return nil, fmt.Errorf("robots.txt disallows crawling %s", site.BaseURL)
	}

	sess, err := c.browser.NewSession()
	if err != nil {
		return nil, fmt.Errorf("creating discovery session: %w", err)
	}
	sections, err := c.DiscoverSections(sess, site)
	sess.Close()
	if err != nil {
		return nil, err
	}
	c.log.Info("discovered %d sections on %s", len(sections), site.Name)

	tasks := make(chan catalog.Section, len(sections))
	results := make(chan SectionResult, len(sections))

	var wg sync.WaitGroup
	for i := 1; i <= c.cfg.Workers; i++ {
		wg.Add(1)
		go c.worker(ctx, i, site, tasks, results, &wg)
	}
	for _, s := range sections {
		tasks <- s
	}
	close(tasks)
	go func() {
		wg.Wait()
		close(results)
	}()

	report := &Report{Site: site.Name}
	completed := 0
	for r := range results {
		completed++
		// Pages persisted before a section failed are durable, so the
		// partial count stays in the total.
		report.Saved += r.Saved
		if r.Err != nil {
			report.Failed++
			c.log.Error("section %q failed after saving %d: %v", r.Section.Name, r.Saved, r.Err)
		}
		report.Sections = append(report.Sections, r)
		c.log.Info("sections completed %d/%d", completed, len(sections))
	}
	c.log.Summary("%s: saved %d products across %d sections, %d failed",
		site.Name, report.Saved, len(sections), report.Failed)
	return report, nil
}

// worker owns one browser session for its whole lifetime. If the session
// cannot be created the worker still drains its share of tasks, failing
// them, so the result channel always sees one result per section.
func (c *Crawler) worker(ctx context.Context, id int, site Site, tasks <-chan catalog.Section, results chan<- SectionResult, wg *sync.WaitGroup) {
	defer wg.Done()

	sess, err := c.browser.NewSession()
	if err != nil {
		c.log.Error("worker %d: creating session: %v", id, err)
		for section := range tasks {
			results <- SectionResult{Section: section, Err: fmt.Errorf("no browser session: %w", err)}
		}
		return
	}
	defer sess.Close()

	for section := range tasks {
		saved, err := c.runSection(ctx, sess, site, section)
		results <- SectionResult{Section: section, Saved: saved, Err: err}
	}
}

// runSection is the task boundary: a panic anywhere below surfaces as
// that section's error and never takes down a sibling.
func (c *Crawler) runSection(ctx context.Context, sess browser.Session, site Site, section catalog.Section) (saved int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in section %q: %v", section.Name, r)
		}
	}()
	return c.crawlSection(ctx, sess, site, section)
}
