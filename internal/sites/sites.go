// Package sites holds the vendor profiles: selectors, sentinel phrases
// and pagination conventions for each supported catalog site. Selectors
// track the vendors' current markup and are the first thing to check
// when a crawl starts coming back empty.
package sites

import (
	"fmt"

	"github.com/AlexV384/PD-UVP211/internal/crawler"
)

// All returns every supported vendor profile.
func All() []crawler.Site {
	return []crawler.Site{Officemag(), Kancleropt()}
}

// ByName resolves a profile by its short name.
func ByName(name string) (crawler.Site, error) {
	for _, s := range All() {
		if s.Name == name {
			return s, nil
		}
	}
	return crawler.Site{}, fmt.Errorf("unknown site %q", name)
}
