package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var ifMissing bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the search indexes from the corpus",
		Long: `Build the lexical index and embedding store from the current corpus.

By default both artifacts are rebuilt from scratch. Indexes do not
track corpus changes automatically; rerun this command after recipes
are added, edited, or deleted.

An unavailable embedding model skips the embedding store and leaves
semantic search disabled; the lexical index still builds.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, ifMissing)
		},
	}

	cmd.Flags().BoolVar(&ifMissing, "if-missing", false, "Only build artifacts that do not exist yet")

	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, ifMissing bool) error {
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Building indexes for %d recipe(s)...\n", count)

	start := time.Now()
	coord := a.coordinator()
	if ifMissing {
		err = coord.EnsureReady(ctx)
	} else {
		err = coord.Rebuild(ctx)
	}
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Done in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
