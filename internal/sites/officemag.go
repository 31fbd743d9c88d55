package sites

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
	"github.com/AlexV384/PD-UVP211/internal/crawler"
)

const officemagBase = "https://www.officemag.ru"

// Officemag is the profile for officemag.ru: a Bitrix storefront with a
// two-level catalog tree and PAGEN_1 pagination.
func Officemag() crawler.Site {
	site := crawler.Site{
		Name:        "officemag",
		BaseURL:     officemagBase,
		IndexURL:    officemagBase + "/catalog/",
		Table:       "officemag_products",
		Node:        "div.listItem__content",
		SectionNode: "li > a[href^='/catalog/'] > strong",
		Fields: crawler.FieldSet{
			Name: crawler.FieldRule{
				Candidates: []crawler.Candidate{{Query: "div.nameWrapper a"}},
				Sentinel:   "Без названия",
			},
			Description: crawler.FieldRule{
				Candidates: []crawler.Candidate{{Query: "ul.info li", Join: true}},
				Sentinel:   "Нет описания",
			},
			Price: crawler.FieldRule{
				Candidates: []crawler.Candidate{{Query: "span.Price__count"}},
				Penny:      []crawler.Candidate{{Query: "span.Price__penny"}},
				Sentinel:   "Цена не указана",
			},
			Amount: crawler.FieldRule{
				Candidates: []crawler.Candidate{{Query: "td.AvailabilityBox.AvailabilityBox--green"}},
				Sentinel:   "Количество не указано",
			},
			Image: crawler.FieldRule{
				Candidates: []crawler.Candidate{
					{Query: "img.ProductPhoto__img.listItemPhoto__img.js-productPhotoMain", Attr: "src"},
					{Query: "img.ProductPhoto__img.listItemPhoto__img.js-productPhotoMain", Attr: "data-src"},
				},
				Sentinel:   "Фото не найдено",
				ResolveURL: true,
			},
			URL: crawler.FieldRule{
				Candidates: []crawler.Candidate{{Query: "a.listItemPhoto__link", Attr: "href"}},
				Sentinel:   "URL не найден",
				ResolveURL: true,
			},
		},
		// Page 1 is the bare section URL; Bitrix only paginates from 2.
		PageURL: func(sectionURL string, page int) string {
			if page <= 1 {
				return sectionURL
			}
			return fmt.Sprintf("%s?PAGEN_1=%d", sectionURL, page)
		},
	}
	site.Sections = officemagSections
	site.Subsections = officemagSections
	return site
}

// officemagSections reads section links from an index or section page.
// The link text lives in a <strong> inside the anchor.
func officemagSections(doc *goquery.Document) []catalog.Section {
	var sections []catalog.Section
	doc.Find("li > a[href^='/catalog/'] > strong").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		href, ok := s.Parent().Attr("href")
		if name == "" || !ok || href == "" {
			return
		}
		sections = append(sections, catalog.Section{
			Name: name,
			URL:  officemagBase + href,
		})
	})
	return sections
}
