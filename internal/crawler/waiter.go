package crawler

import (
	"time"

	"github.com/AlexV384/PD-UVP211/internal/browser"
)

// WaitConfig tunes the render-stability waiter. Zero values are usable
// in tests; production values come from configuration.
type WaitConfig struct {
	// MaxWait bounds the whole wait by wall clock.
	MaxWait time.Duration
	// PollInterval separates consecutive count polls.
	PollInterval time.Duration
	// StabilityRounds is how many consecutive polls must observe the
	// same non-zero count before the page counts as settled.
	StabilityRounds int
	// ScrollStep is the pixel distance scrolled between polls to trigger
	// lazy rendering.
	ScrollStep int
	// ImageTimeout bounds the per-node lazy image wait.
	ImageTimeout time.Duration
	// ImagePoll separates consecutive image attribute polls.
	ImagePoll time.Duration
}

// Attribute variants checked for a lazy-loaded image URL, in order of
// preference.
var lazyImageAttrs = []string{"src", "data-src", "data-lazy-src", "data-original"}

// WaitStable scrolls and polls until the number of selector matches is
// non-zero and unchanged for cfg.StabilityRounds consecutive polls, or
// until cfg.MaxWait elapses. It returns the last observed count either
// way; a timeout is not an error, the caller works with what rendered.
func WaitStable(sess browser.Session, selector string, cfg WaitConfig) int {
	deadline := time.Now().Add(cfg.MaxWait)
	last := -1
	rounds := 0
	for {
		n, err := sess.Count(selector)
		if err != nil {
			n = 0
		}
		if n > 0 && n == last {
			rounds++
			if rounds >= cfg.StabilityRounds {
				return n
			}
		} else {
			rounds = 0
		}
		last = n
		if !time.Now().Before(deadline) {
			return n
		}
		sess.ScrollBy(cfg.ScrollStep)
		time.Sleep(cfg.PollInterval)
	}
}

// EnsureImages walks every selector match, scrolls it into view and
// waits (bounded per node) until one of the lazy-load attribute variants
// carries a URL. Best effort: nodes whose image never materializes are
// left to the extractor's sentinel.
func EnsureImages(sess browser.Session, selector string, cfg WaitConfig) int {
	n, err := sess.Count(selector)
	if err != nil {
		return 0
	}
	ready := 0
	for i := 0; i < n; i++ {
		sess.ScrollIntoView(selector, i)
		deadline := time.Now().Add(cfg.ImageTimeout)
		for {
			v, err := sess.ImageAttr(selector, i, lazyImageAttrs)
			if err == nil && v != "" {
				ready++
				break
			}
			if !time.Now().Before(deadline) {
				break
			}
			time.Sleep(cfg.ImagePoll)
		}
	}
	return ready
}
