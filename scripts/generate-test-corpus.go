//go:build ignore

// Package main generates a synthetic recipe corpus for benchmarking.
// Usage: go run scripts/generate-test-corpus.go -recipes 5000 -output testdata/recipes.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numRecipes = flag.Int("recipes", 5000, "Number of recipes to generate")
	outputPath = flag.String("output", "testdata/recipes.json", "Output JSON file")
	seed       = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var dishes = []string{
	"Soup", "Stew", "Salad", "Pasta", "Risotto", "Curry", "Pie",
	"Gratin", "Skewers", "Tacos", "Bowl", "Casserole", "Frittata",
}

var mains = []string{
	"Tomato", "Basil", "Chicken", "Mushroom", "Pumpkin", "Lentil",
	"Salmon", "Eggplant", "Chickpea", "Beef", "Spinach", "Potato",
}

var extras = []string{
	"garlic", "onion", "olive oil", "butter", "cream", "parsley",
	"thyme", "lemon", "chili", "ginger", "parmesan", "black pepper",
}

var kitchens = []string{"italian", "french", "indian", "mexican", "thai", "swedish", "japanese"}

var types = []string{"starter", "main", "dessert", "side", "snack"}

var steps = []string{
	"Chop the %s finely and set aside.",
	"Saute the %s over medium heat until golden.",
	"Simmer with the %s for twenty minutes.",
	"Season generously and fold in the %s.",
	"Serve hot, garnished with %s.",
}

type recipe struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Kitchen     string `json:"kitchen"`
	Ingredients string `json:"ingredients"`
	Text        string `json:"text"`
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	records := make([]recipe, 0, *numRecipes)
	for i := 0; i < *numRecipes; i++ {
		base := mains[rng.Intn(len(mains))]
		dish := dishes[rng.Intn(len(dishes))]

		picked := make([]string, 0, 4)
		picked = append(picked, strings.ToLower(base))
		for len(picked) < 4 {
			e := extras[rng.Intn(len(extras))]
			if !contains(picked, e) {
				picked = append(picked, e)
			}
		}

		var body strings.Builder
		for _, s := range steps {
			fmt.Fprintf(&body, s+" ", picked[rng.Intn(len(picked))])
		}

		records = append(records, recipe{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("%s %s", base, dish),
			Type:        types[rng.Intn(len(types))],
			Kitchen:     kitchens[rng.Intn(len(kitchens))],
			Ingredients: strings.Join(picked, ", "),
			Text:        strings.TrimSpace(body.String()),
		})
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d recipes to %s\n", len(records), *outputPath)
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
