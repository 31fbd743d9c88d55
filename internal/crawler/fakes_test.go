package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/AlexV384/PD-UVP211/internal/browser"
	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

// fakeSession implements browser.Session with overridable Fn fields;
// unset functions behave as harmless no-ops.
type fakeSession struct {
	NavigateFn       func(url string) error
	HTMLFn           func() (string, error)
	ScrollByFn       func(px int) error
	CountFn          func(selector string) (int, error)
	ScrollIntoViewFn func(selector string, index int) error
	ImageAttrFn      func(selector string, index int, attrs []string) (string, error)
	CloseFn          func() error
}

func (s *fakeSession) Navigate(url string) error {
	if s.NavigateFn != nil {
		return s.NavigateFn(url)
	}
	return nil
}

func (s *fakeSession) HTML() (string, error) {
	if s.HTMLFn != nil {
		return s.HTMLFn()
	}
	return "<html></html>", nil
}

func (s *fakeSession) ScrollBy(px int) error {
	if s.ScrollByFn != nil {
		return s.ScrollByFn(px)
	}
	return nil
}

func (s *fakeSession) Count(selector string) (int, error) {
	if s.CountFn != nil {
		return s.CountFn(selector)
	}
	return 0, nil
}

func (s *fakeSession) ScrollIntoView(selector string, index int) error {
	if s.ScrollIntoViewFn != nil {
		return s.ScrollIntoViewFn(selector, index)
	}
	return nil
}

func (s *fakeSession) ImageAttr(selector string, index int, attrs []string) (string, error) {
	if s.ImageAttrFn != nil {
		return s.ImageAttrFn(selector, index, attrs)
	}
	return "", nil
}

func (s *fakeSession) Close() error {
	if s.CloseFn != nil {
		return s.CloseFn()
	}
	return nil
}

type fakeBrowser struct {
	NewSessionFn func() (browser.Session, error)
}

func (b *fakeBrowser) NewSession() (browser.Session, error) {
	if b.NewSessionFn != nil {
		return b.NewSessionFn()
	}
	return &fakeSession{}, nil
}

func (b *fakeBrowser) Close() error { return nil }

// fakeStore keeps inserted records in memory and mimics the real sink's
// insert-or-ignore on product URL across batches.
type fakeStore struct {
	mu       sync.Mutex
	err      error
	seen     map[string]struct{}
	inserted []catalog.ProductRecord
	sections []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: make(map[string]struct{})}
}

func (s *fakeStore) SaveBatch(_ context.Context, section string, records map[string]catalog.ProductRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.sections = append(s.sections, section)
	inserted := 0
	for _, rec := range records {
		if rec.OutOfStock() {
			continue
		}
		if _, dup := s.seen[rec.ProductURL]; dup {
			continue
		}
		s.seen[rec.ProductURL] = struct{}{}
		s.inserted = append(s.inserted, rec)
		inserted++
	}
	return inserted, nil
}

func (s *fakeStore) insertedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserted)
}

// testSite is a minimal vendor profile with plain selectors so fixtures
// stay readable.
func testSite() Site {
	return Site{
		Name:        "testshop",
		BaseURL:     "https://shop.test",
		IndexURL:    "https://shop.test/catalog",
		Table:       "testshop_products",
		Node:        "div.product",
		SectionNode: "a.section",
		Fields:      testFields(),
		Sections: func(doc *goquery.Document) []catalog.Section {
			var out []catalog.Section
			doc.Find("a.section").Each(func(_ int, s *goquery.Selection) {
				href, _ := s.Attr("href")
				out = append(out, catalog.Section{Name: strings.TrimSpace(s.Text()), URL: "https://shop.test" + href})
			})
			return out
		},
		PageURL: func(sectionURL string, page int) string {
			return fmt.Sprintf("%s?p=%d", sectionURL, page)
		},
	}
}

func testFields() FieldSet {
	return FieldSet{
		Name: FieldRule{
			Candidates: []Candidate{{Query: "h3"}},
			Sentinel:   "Без названия",
		},
		Description: FieldRule{
			Candidates: []Candidate{{Query: "ul.info li", Join: true}},
			Sentinel:   "Нет описания",
		},
		Price: FieldRule{
			Candidates: []Candidate{{Query: "span.price"}},
			Penny:      []Candidate{{Query: "span.penny"}},
			Sentinel:   "Цена не указана",
		},
		Amount: FieldRule{
			Candidates: []Candidate{{Query: "span.stock"}},
			Sentinel:   "Количество не указано",
		},
		Image: FieldRule{
			Candidates: []Candidate{
				{Query: "img", Attr: "src"},
				{Query: "img", Attr: "data-src"},
			},
			Sentinel:   "Фото не найдено",
			ResolveURL: true,
		},
		URL: FieldRule{
			Candidates: []Candidate{{Query: "a.card", Attr: "href"}},
			Sentinel:   "URL не найден",
			ResolveURL: true,
		},
	}
}

// productHTML builds one product card for the test profile. Empty field
// values omit the element entirely.
func productHTML(name, price, penny, stock, img, href string) string {
	var b strings.Builder
	b.WriteString(`<div class="product">`)
	if name != "" {
		fmt.Fprintf(&b, "<h3>%s</h3>", name)
	}
	b.WriteString(`<ul class="info"><li>арт. 1001</li><li>пластик</li></ul>`)
	if price != "" {
		fmt.Fprintf(&b, `<span class="price">%s</span>`, price)
	}
	if penny != "" {
		fmt.Fprintf(&b, `<span class="penny">%s</span>`, penny)
	}
	if stock != "" {
		fmt.Fprintf(&b, `<span class="stock">%s</span>`, stock)
	}
	if img != "" {
		fmt.Fprintf(&b, `<img src="%s">`, img)
	}
	if href != "" {
		fmt.Fprintf(&b, `<a class="card" href="%s">открыть</a>`, href)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func listingHTML(cards ...string) string {
	return "<html><body>" + strings.Join(cards, "\n") + "</body></html>"
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}
