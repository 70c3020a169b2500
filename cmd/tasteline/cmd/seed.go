package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasteline/tasteline/internal/recipe"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Load recipes from a JSON dump into the corpus",
		Long: `Load recipes from a JSON dump into the corpus database.

The file is a JSON array of recipe objects:

  [{"id": 1, "name": "Tomato Soup", "type": "soup", "kitchen": "italian",
    "ingredients": "tomato, basil", "text": "Simmer until soft."}]

Ids are preserved when present and assigned otherwise. Rerun
'tasteline build' afterwards so the indexes see the new records.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runSeed(cmd.Context(), cmd, path)
		},
	}

	return cmd
}

func runSeed(ctx context.Context, cmd *cobra.Command, path string) error {
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if path == "" {
		path = a.cfg.Paths.SeedFile
	}
	if path == "" {
		return fmt.Errorf("no seed file given (pass a path or set paths.seed_file)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []recipe.Recipe
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	inserted := 0
	for i := range records {
		if _, err := a.store.Insert(ctx, &records[i]); err != nil {
			return fmt.Errorf("failed to insert recipe %q: %w", records[i].Name, err)
		}
		inserted++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d recipe(s) from %s\n", inserted, path)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'tasteline build' to refresh the search indexes.")
	return nil
}
