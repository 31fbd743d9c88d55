package sites

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
	"github.com/AlexV384/PD-UVP211/internal/crawler"
)

const kancleroptBase = "https://kancleroptshilovo.ru"

// Kancleropt is the profile for kancleroptshilovo.ru: a React storefront
// with a flat catalog, schema.org microdata on product cards and
// limit/p query pagination. The generated CSS-module class names are
// brittle, so rules prefer itemprop attributes where the markup has
// them.
func Kancleropt() crawler.Site {
	return crawler.Site{
		Name:        "kancleropt",
		BaseURL:     kancleroptBase,
		IndexURL:    kancleroptBase + "/catalog-list",
		Table:       "kancleroptshilovo_products",
		Node:        "div.src-components-SSRLazyRender-SSRLazyRender__SSRLazyRender.src-components-Products-Products__product",
		SectionNode: "a.src-components-CatalogList-Block-Block__titleLink.src-components-CatalogList-Block-Block__titleLink_header",
		Fields: crawler.FieldSet{
			Name: crawler.FieldRule{
				Candidates: []crawler.Candidate{
					{Query: `a.src-components-Product-ProductList-ProductList__name span[itemprop="name"]`},
					{Query: `span[itemprop="name"]`},
				},
				Sentinel: "Неизвестно",
			},
			Description: crawler.FieldRule{
				Candidates: []crawler.Candidate{{Query: `meta[itemprop="description"]`, Attr: "content"}},
				Sentinel:   "Нет описания",
			},
			Price: crawler.FieldRule{
				Candidates: []crawler.Candidate{{Query: `span[itemprop="lowPrice"]`}},
				Sentinel:   "Цена не указана",
			},
			Amount: crawler.FieldRule{
				Candidates: []crawler.Candidate{
					{Query: `p[class*="ProductBalance__restAmount_productList"]`},
				},
				Sentinel: "Количество не указано",
			},
			Image: crawler.FieldRule{
				Candidates: []crawler.Candidate{
					{Query: "img.src-components-Image-Image__preview.src-components-Image-Image__imgContain", Attr: "src"},
					{Query: "img.src-components-Image-Image__preview.src-components-Image-Image__imgContain", Attr: "data-src"},
				},
				Sentinel:   "Фото не найдено",
				ResolveURL: true,
			},
			URL: crawler.FieldRule{
				Candidates: []crawler.Candidate{{Query: `a[itemprop="url"]`, Attr: "href"}},
				Sentinel:   "URL не найден",
				ResolveURL: true,
			},
		},
		Sections: kancleroptSections,
		// Flat catalog: section pages never nest further.
		Subsections: nil,
		PageURL: func(sectionURL string, page int) string {
			return fmt.Sprintf("%s?limit=108&p=%d", sectionURL, page)
		},
	}
}

// kancleroptSections reads the section tiles off /catalog-list. The tile
// title sits in a text <p> near the link; listing pages live under
// /catalog rather than /catalog-list, so the href is rewritten.
func kancleroptSections(doc *goquery.Document) []catalog.Section {
	var sections []catalog.Section
	sel := "a.src-components-CatalogList-Block-Block__titleLink.src-components-CatalogList-Block-Block__titleLink_header"
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		name := strings.TrimSpace(s.Find("p.src-components-Text-Text__text").First().Text())
		if name == "" {
			name = strings.TrimSpace(s.Parent().Find("p.src-components-Text-Text__text").First().Text())
		}
		if name == "" {
			name = "Неизвестный раздел"
		}
		sections = append(sections, catalog.Section{
			Name: name,
			URL:  kancleroptBase + strings.Replace(href, "/catalog-list", "/catalog", 1),
		})
	})
	return sections
}
