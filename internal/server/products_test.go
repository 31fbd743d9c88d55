package server

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"45,60", 45.60},
		{"1 234,56", 1234.56},
		{"312,00", 312},
		{"150", 150},
		{"Цена не указана", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePrice(tt.in), "price %q", tt.in)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 26, ParseAmount("26 шт."))
	assert.Equal(t, 1200, ParseAmount("более 1 200 шт."))
	assert.Equal(t, 0, ParseAmount("Количество не указано"))
	assert.Equal(t, 0, ParseAmount(""))
}

func TestFromPersisted(t *testing.T) {
	t.Parallel()

	p := FromPersisted(catalog.PersistedProduct{
		Category: "Ручки",
		ProductRecord: catalog.ProductRecord{
			Name:       "Ручка",
			Price:      "1 234,56",
			Amount:     "26 шт.",
			ProductURL: "https://shop.test/product/1",
		},
	})
	assert.Equal(t, 1234.56, p.Price)
	assert.Equal(t, 26, p.Amount)
	assert.Equal(t, "Ручки", p.Category)
}

func sampleProducts() []Product {
	return []Product{
		{Category: "Ручки", Name: "Ручка гелевая", Price: 45.60, Amount: 120},
		{Category: "Бумага", Name: "Бумага SvetoCopy А4", Price: 312, Amount: 40},
		{Category: "Ручки", Name: "Ручка шариковая", Price: 12, Amount: 500},
		{Category: "Клей", Name: "Клей-карандаш", Price: 38.50, Amount: 26},
	}
}

func TestFilterSort(t *testing.T) {
	t.Parallel()

	t.Run("category filter", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{Categories: []string{"Ручки"}})
		assert.Len(t, got, 2)
	})

	t.Run("multiple categories", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{Categories: []string{"Ручки", "Клей"}})
		assert.Len(t, got, 3)
	})

	t.Run("price range", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{MinPrice: 30, MaxPrice: 100})
		assert.Len(t, got, 2)
	})

	t.Run("zero max price means unbounded", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{MinPrice: 100})
		assert.Len(t, got, 1)
		assert.Equal(t, "Бумага SvetoCopy А4", got[0].Name)
	})

	t.Run("search is case-insensitive on name", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{Search: "РУЧКА"})
		assert.Len(t, got, 2)
	})

	t.Run("sort price_asc", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{Sort: "price_asc"})
		assert.Equal(t, []float64{12, 38.50, 45.60, 312}, prices(got))
	})

	t.Run("sort price_desc", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{Sort: "price_desc"})
		assert.Equal(t, []float64{312, 45.60, 38.50, 12}, prices(got))
	})

	t.Run("sort amount_desc", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{Sort: "amount_desc"})
		assert.Equal(t, 500, got[0].Amount)
	})

	t.Run("sort name_asc", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{Sort: "name_asc"})
		assert.Equal(t, "Бумага SvetoCopy А4", got[0].Name)
	})

	t.Run("unknown sort keeps input order", func(t *testing.T) {
		t.Parallel()
		got := FilterSort(sampleProducts(), Query{Sort: "shuffle"})
		assert.Equal(t, sampleProducts(), got)
	})
}

func prices(products []Product) []float64 {
	out := make([]float64, len(products))
	for i, p := range products {
		out[i] = p.Price
	}
	return out
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	products := make([]Product, 65)
	for i := range products {
		products[i].Name = "товар " + strconv.Itoa(i)
	}

	page, total, totalPages := Paginate(products, 1)
	assert.Len(t, page, 30)
	assert.Equal(t, 65, total)
	assert.Equal(t, 3, totalPages)

	page, _, _ = Paginate(products, 3)
	assert.Len(t, page, 5)
	assert.Equal(t, "товар 60", page[0].Name)

	page, total, totalPages = Paginate(products, 9)
	assert.Empty(t, page, "pages past the end are empty, not an error")
	assert.Equal(t, 65, total)
	assert.Equal(t, 3, totalPages)

	page, _, _ = Paginate(nil, 1)
	assert.Empty(t, page)
}
