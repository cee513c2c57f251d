package seed

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/louisbranch/storefront/internal/services/api/catalog"
)

var (
	adjectives = []string{"Classic", "Rustic", "Coastal", "Woven", "Vintage", "Modern", "Desert", "Atlas", "Medina", "Indigo"}
	nouns      = map[string][]string{
		"shirts":      {"Shirt", "Tunic", "Overshirt", "Tee"},
		"accessories": {"Scarf", "Tote", "Cap", "Wallet"},
		"home":        {"Bowl", "Throw", "Lantern", "Cushion"},
	}
	categoryOrder = []string{"shirts", "accessories", "home"}
)

// GenerateProducts renders n pseudo-random products as an import CSV.
// Slugs carry an index suffix so reruns with the same seed update rather
// than duplicate.
func GenerateProducts(r *rand.Rand, n int) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(catalog.ImportColumns); err != nil {
		return nil, err
	}
	for i := 1; i <= n; i++ {
		category := categoryOrder[r.IntN(len(categoryOrder))]
		candidates := nouns[category]
		name := adjectives[r.IntN(len(adjectives))] + " " + candidates[r.IntN(len(candidates))]
		slug := fmt.Sprintf("generated-%04d", i)
		price := float64(500+r.IntN(15000)) / 100

		discount, onSale := "", r.IntN(4) == 0
		if onSale {
			discount = strconv.FormatFloat(price*0.8, 'f', 2, 64)
		}
		record := []string{
			name,
			slug,
			"Generated demo product",
			strconv.FormatFloat(price, 'f', 2, 64),
			discount,
			strconv.FormatBool(onSale),
			strconv.FormatBool(r.IntN(6) == 0),
			category,
			"",
			strconv.Itoa(r.IntN(50)),
			"",
			"",
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
