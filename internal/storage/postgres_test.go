package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

func TestFilterInStock(t *testing.T) {
	t.Parallel()

	records := map[string]catalog.ProductRecord{
		"https://shop.test/product/1": {Name: "Ручка", Amount: "26 шт.", ProductURL: "https://shop.test/product/1"},
		"https://shop.test/product/2": {Name: "Клей", Amount: "Нет в наличии", ProductURL: "https://shop.test/product/2"},
		"https://shop.test/product/3": {Name: "Скотч", Amount: "товара НЕТ В НАЛИЧИИ", ProductURL: "https://shop.test/product/3"},
		"https://shop.test/product/4": {Name: "Бумага", Amount: "Количество не указано", ProductURL: "https://shop.test/product/4"},
	}

	got := FilterInStock(records)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "https://shop.test/product/1")
	assert.Contains(t, got, "https://shop.test/product/4",
		"an unknown amount is not the same as out of stock")
}

// Runs against a real database when DATABASE_URL is set; pins the
// conflict semantics the crawler's idempotence rests on.
func TestSaveBatchAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn, "catalog_sink_test", Options{})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.pool.Exec(ctx, "DROP TABLE IF EXISTS catalog_sink_test")
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))

	records := map[string]catalog.ProductRecord{
		"https://shop.test/product/1": {
			Name: "Ручка", Description: "Синяя", Price: "45,60", Amount: "120 шт.",
			ImageURL: "https://shop.test/img/1.jpg", ProductURL: "https://shop.test/product/1",
		},
		"https://shop.test/product/2": {
			Name: "Бумага А4", Description: "80 г/м2", Price: "312,00", Amount: "40 шт.",
			ImageURL: "https://shop.test/img/2.jpg", ProductURL: "https://shop.test/product/2",
		},
		"https://shop.test/product/3": {
			Name: "Клей", Description: "15 г", Price: "38,50", Amount: "Нет в наличии",
			ImageURL: "https://shop.test/img/3.jpg", ProductURL: "https://shop.test/product/3",
		},
	}

	inserted, err := store.SaveBatch(ctx, "Канцтовары", records)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted, "the out-of-stock record never lands")

	// Re-crawling the same page inserts nothing new.
	inserted, err = store.SaveBatch(ctx, "Канцтовары", records)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	// The same URL arriving under another section stays a single row.
	inserted, err = store.SaveBatch(ctx, "Ручки и стержни", map[string]catalog.ProductRecord{
		"https://shop.test/product/1": records["https://shop.test/product/1"],
	})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	products, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Канцтовары", products[0].Category)
	assert.Equal(t, "Ручка", products[0].Name, "insertion order preserved by id")

	_, err = store.pool.Exec(ctx, "DROP TABLE catalog_sink_test")
	require.NoError(t, err)
}

func TestNewRejectsUnsafeTableNames(t *testing.T) {
	t.Parallel()

	for _, table := range []string{
		"",
		"Products",
		"products; DROP TABLE users",
		"1products",
		"products-2024",
	} {
		_, err := New(context.Background(), "postgres://localhost/x", table, Options{})
		assert.Error(t, err, "table %q", table)
	}
}
