package crawler

import (
	"net/http"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
)

// AllowedByRobots reports whether robots.txt permits the user agent to
// crawl the site root. An unreachable or malformed robots.txt permits
// the crawl; only an explicit disallow blocks it.
func AllowedByRobots(baseURL, userAgent string) bool {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(strings.TrimSuffix(baseURL, "/") + "/robots.txt")
	if err != nil {
		return true
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return true
	}
	return data.FindGroup(userAgent).Test("/")
}
