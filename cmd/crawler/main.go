// Command crawler crawls the configured vendor catalogs into Postgres,
// once or on a fixed interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/AlexV384/PD-UVP211/internal/browser"
	"github.com/AlexV384/PD-UVP211/internal/config"
	"github.com/AlexV384/PD-UVP211/internal/crawler"
	"github.com/AlexV384/PD-UVP211/internal/export"
	"github.com/AlexV384/PD-UVP211/internal/logging"
	"github.com/AlexV384/PD-UVP211/internal/sites"
	"github.com/AlexV384/PD-UVP211/internal/storage"
)

func main() {
	siteName := flag.String("site", "all", "site to crawl: officemag, kancleropt or all")
	every := flag.Duration("every", 0, "re-crawl interval, e.g. 24h; 0 crawls once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	targets, err := resolveSites(*siteName)
	if err != nil {
		log.Fatal(err)
	}

	for {
		if err := crawlPass(context.Background(), cfg, targets); err != nil {
			log.Printf("crawl pass failed: %v", err)
		}
		if *every <= 0 {
			return
		}
		log.Printf("next crawl in %s", *every)
		time.Sleep(*every)
	}
}

func resolveSites(name string) ([]crawler.Site, error) {
	if name == "all" {
		return sites.All(), nil
	}
	site, err := sites.ByName(name)
	if err != nil {
		return nil, err
	}
	return []crawler.Site{site}, nil
}

func crawlPass(ctx context.Context, cfg *config.Config, targets []crawler.Site) error {
	b, err := browser.Launch(browser.Options{
		Adapter:        cfg.Browser.Adapter,
		Headless:       cfg.Browser.Headless,
		UserAgent:      cfg.Browser.UserAgent,
		Timeout:        cfg.Browser.Timeout,
		BlockResources: cfg.Browser.BlockResources,
	})
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	defer b.Close()

	for _, site := range targets {
		if err := crawlSite(ctx, cfg, b, site); err != nil {
			log.Printf("crawling %s: %v", site.Name, err)
		}
	}
	return nil
}

func crawlSite(ctx context.Context, cfg *config.Config, b browser.Browser, site crawler.Site) error {
	logger := logging.New(site.Name)

	store, err := storage.New(ctx, cfg.Database.URL, site.Table, storage.Options{
		LockTimeout: cfg.Crawl.LockTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	c := crawler.New(b, store, logger, crawler.Config{
		Workers:     cfg.Crawl.Workers,
		RetryBudget: cfg.Crawl.RetryBudget,
		CheckRobots: cfg.Crawl.CheckRobots,
		UserAgent:   cfg.Browser.UserAgent,
		Wait:        waitConfig(cfg.Crawl.Wait),
		RetryWait:   waitConfig(cfg.Crawl.Retry),
	})

	if _, err := c.Run(ctx, site); err != nil {
		return err
	}

	if cfg.Crawl.ExportDir != "" {
		products, err := store.LoadAll(ctx)
		if err != nil {
			logger.Error("loading products for export: %v", err)
			return nil
		}
		path, err := export.WriteCSV(cfg.Crawl.ExportDir, site.Name, products)
		if err != nil {
			logger.Error("exporting products: %v", err)
			return nil
		}
		logger.Info("exported %d products to %s", len(products), path)
	}
	return nil
}

func waitConfig(w config.WaitSettings) crawler.WaitConfig {
	return crawler.WaitConfig{
		MaxWait:         w.MaxWait,
		PollInterval:    w.PollInterval,
		StabilityRounds: w.StabilityRounds,
		ScrollStep:      w.ScrollStep,
		ImageTimeout:    w.ImageTimeout,
		ImagePoll:       w.ImagePoll,
	}
}
