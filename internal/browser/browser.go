// Package browser abstracts the automation driver behind a small session
// interface so the crawl pipeline runs unchanged on playwright or rod.
package browser

import (
	"fmt"
	"time"
)

// Options configures the shared browser instance.
type Options struct {
	Adapter        string // "playwright" or "rod"
	Headless       bool
	UserAgent      string
	Timeout        time.Duration
	BlockResources bool
}

// Session is one isolated browser page. Sessions are not safe for
// concurrent use; each crawl worker owns exactly one.
type Session interface {
	// Navigate loads the URL and waits for the initial load, bounded by
	// the configured timeout.
	Navigate(url string) error
	// HTML returns a snapshot of the current DOM.
	HTML() (string, error)
	// ScrollBy scrolls the viewport down by the given pixel amount.
	ScrollBy(px int) error
	// Count returns how many elements currently match the selector.
	Count(selector string) (int, error)
	// ScrollIntoView scrolls the i-th match of the selector into the
	// viewport so lazy-load observers fire.
	ScrollIntoView(selector string, index int) error
	// ImageAttr returns the first non-empty attribute among attrs on the
	// <img> inside the i-th match of selector, or "" if none is set yet.
	ImageAttr(selector string, index int, attrs []string) (string, error)
	Close() error
}

// Browser owns the underlying driver process and hands out sessions.
type Browser interface {
	NewSession() (Session, error)
	Close() error
}

// Launch starts the driver selected by opts.Adapter.
func Launch(opts Options) (Browser, error) {
	switch opts.Adapter {
	case "playwright":
		return launchPlaywright(opts)
	case "rod":
		return launchRod(opts)
	default:
		return nil, fmt.Errorf("unsupported browser adapter: %s", opts.Adapter)
	}
}

// Resource types safe to block: none of them carry extracted data.
var blockedResourceTypes = map[string]struct{}{
	"font":  {},
	"media": {},
}

// Script injected before any site script runs. Headless Chromium leaks
// navigator.webdriver=true, which both vendor sites check.
const maskAutomationScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
window.chrome = window.chrome || { runtime: {} };
Object.defineProperty(navigator, 'languages', { get: () => ['ru-RU', 'ru', 'en-US'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
`
