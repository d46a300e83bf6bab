// Generates a fake local catalog JSON file for development and demos.
//
// Usage:
//
//	go run ./scripts/seed-catalog -out config/catalog.json -products 40
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/meridianprints/storefront/internal/catalog"
)

var sizes = []struct {
	name  string
	cents int64
}{
	{"8x10", 1800},
	{"12x18", 3500},
	{"18x24", 5500},
	{"24x36", 8500},
}

var frames = []struct {
	name  string
	cents int64
}{
	{"Unframed", 0},
	{"Framed", 4000},
}

var collections = []struct {
	handle string
	title  string
}{
	{"landscapes", "Landscapes"},
	{"abstract", "Abstract"},
	{"botanical", "Botanical"},
	{"city-scenes", "City Scenes"},
}

type catalogFile struct {
	Products    []catalog.Product `json:"products"`
	Collections []collectionEntry `json:"collections"`
}

type collectionEntry struct {
	catalog.Collection
	ProductHandles []string `json:"productHandles"`
}

func main() {
	out := flag.String("out", "config/catalog.json", "output file path")
	numProducts := flag.Int("products", 24, "number of products to generate")
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	file := catalogFile{}
	membership := make(map[string][]string)
	seenHandles := make(map[string]bool)

	for i := 0; i < *numProducts; i++ {
		title := titleCase(fmt.Sprintf("%s %s print", gofakeit.AdjectiveDescriptive(), gofakeit.NounConcrete()))
		handle := slugify(title)
		if seenHandles[handle] {
			handle = fmt.Sprintf("%s-%d", handle, i)
		}
		seenHandles[handle] = true

		product := catalog.Product{
			ID:          fmt.Sprintf("local-prod-%03d", i+1),
			Handle:      handle,
			Title:       title,
			Description: gofakeit.Paragraph(1, 3, 12, " "),
			Vendor:      "Meridian Prints",
			Images: []catalog.Image{{
				URL: fmt.Sprintf("https://picsum.photos/seed/%s/1200/1500", handle),
				Alt: title,
			}},
		}

		for si, size := range sizes {
			for fi, frame := range frames {
				cents := size.cents + frame.cents
				product.Variants = append(product.Variants, catalog.Variant{
					ID:        fmt.Sprintf("local-var-%03d-%d%d", i+1, si, fi),
					Title:     fmt.Sprintf("%s / %s", size.name, frame.name),
					SKU:       fmt.Sprintf("MP-%03d-%s-%s", i+1, size.name, strings.ToUpper(frame.name[:2])),
					Price:     catalog.Money{Cents: cents, Currency: "USD"},
					Available: gofakeit.Number(0, 9) > 0, // roughly 1 in 10 sold out
					Options:   map[string]string{"Size": size.name, "Frame": frame.name},
				})
			}
		}

		product.PriceMin = product.Variants[0].Price
		product.PriceMax = product.Variants[len(product.Variants)-1].Price

		file.Products = append(file.Products, product)

		collection := collections[i%len(collections)]
		membership[collection.handle] = append(membership[collection.handle], handle)
	}

	for i, c := range collections {
		file.Collections = append(file.Collections, collectionEntry{
			Collection: catalog.Collection{
				ID:          fmt.Sprintf("local-coll-%02d", i+1),
				Handle:      c.handle,
				Title:       c.title,
				Description: gofakeit.Sentence(10),
			},
			ProductHandles: membership[c.handle],
		})
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal catalog: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}

	fmt.Printf("✓ Wrote %d products and %d collections to %s\n",
		len(file.Products), len(file.Collections), *out)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
