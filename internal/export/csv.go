// Package export writes persisted products out as CSV snapshots.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

var header = []string{"category", "name", "description", "price", "amount", "image_url", "product_url"}

// WriteCSV dumps products into dir as <site>_<date>.csv and returns the
// file path.
func WriteCSV(dir, site string, products []catalog.PersistedProduct) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.csv", site, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, p := range products {
		row := []string{p.Category, p.Name, p.Description, p.Price, p.Amount, p.ImageURL, p.ProductURL}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export: %w", err)
	}
	return path, nil
}
