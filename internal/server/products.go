package server

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

// PageSize is the fixed listing page size.
const PageSize = 30

// Product is the served form of a persisted record: price and amount
// coerced to numbers so clients can filter and sort without re-parsing
// Russian formatting.
type Product struct {
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Amount      int     `json:"amount"`
	ImageURL    string  `json:"image_url"`
	ProductURL  string  `json:"product_url"`
}

// FromPersisted coerces one stored row into its served form.
func FromPersisted(p catalog.PersistedProduct) Product {
	return Product{
		Category:    p.Category,
		Name:        p.Name,
		Description: p.Description,
		Price:       ParsePrice(p.Price),
		Amount:      ParseAmount(p.Amount),
		ImageURL:    p.ImageURL,
		ProductURL:  p.ProductURL,
	}
}

// ParsePrice turns a stored price like "1 234,56" into 1234.56.
// Sentinel values coerce to 0.
func ParsePrice(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseAmount extracts the digits of a stored amount like "26 шт.".
// Values without digits coerce to 0.
func ParseAmount(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	v, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return v
}

// Query is a parsed /get_products request.
type Query struct {
	Categories []string
	MinPrice   float64
	MaxPrice   float64
	Search     string
	Sort       string
	Page       int
}

// FilterSort applies the query's filters and sort order. Unknown sort
// values leave the input order untouched.
func FilterSort(products []Product, q Query) []Product {
	maxPrice := q.MaxPrice
	if maxPrice <= 0 {
		maxPrice = math.Inf(1)
	}
	search := strings.ToLower(q.Search)

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Price < q.MinPrice || p.Price > maxPrice {
			continue
		}
		if len(q.Categories) > 0 && !contains(q.Categories, p.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch q.Sort {
	case "price_asc":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case "price_desc":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case "name_asc":
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
		})
	case "name_desc":
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Name) > strings.ToLower(filtered[j].Name)
		})
	case "amount_asc":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Amount < filtered[j].Amount })
	case "amount_desc":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Amount > filtered[j].Amount })
	}
	return filtered
}

// Paginate slices one listing page out of the filtered set.
func Paginate(products []Product, page int) (pageItems []Product, total, totalPages int) {
	if page < 1 {
		page = 1
	}
	total = len(products)
	totalPages = (total + PageSize - 1) / PageSize
	start := (page - 1) * PageSize
	if start >= total {
		return []Product{}, total, totalPages
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	return products[start:end], total, totalPages
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
