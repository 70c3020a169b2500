package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasteline/tasteline/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	method string
	limit  int
	scores bool
	format string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the recipe corpus",
		Long: `Search the recipe corpus from the command line.

Examples:
  tasteline search "tomato soup"
  tasteline search "basil" --method simple
  tasteline search "hearty winter stew" --method embedding --limit 5
  tasteline search "pesto" --scores --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "m", "bm25", "Retrieval method: simple, bm25, embedding")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().BoolVar(&opts.scores, "scores", false, "Include relevance scores")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	method, err := search.ParseMethod(opts.method)
	if err != nil {
		return err
	}

	withEmbedder := method == search.MethodSemantic
	a, err := openApp(ctx, withEmbedder)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.coordinator().EnsureReady(ctx); err != nil {
		return fmt.Errorf("failed to prepare search indexes: %w", err)
	}

	resp, err := a.engine.Search(ctx, query, search.Options{
		Method:        method,
		Limit:         opts.limit,
		IncludeScores: opts.scores,
	})
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	return printResults(cmd, resp)
}

func printResults(cmd *cobra.Command, resp *search.Response) error {
	out := cmd.OutOrStdout()

	if resp.Error != "" {
		fmt.Fprintf(out, "search failed (%s): %s\n", resp.Method, resp.Error)
		return nil
	}
	if resp.TotalResults == 0 {
		fmt.Fprintf(out, "No results for %q (%s, %.1fms)\n", resp.Query, resp.Method, resp.ExecutionTimeMS)
		return nil
	}

	fmt.Fprintf(out, "%d result(s) for %q (%s, %.1fms)\n\n",
		resp.TotalResults, resp.Query, resp.Method, resp.ExecutionTimeMS)

	for i, r := range resp.Results {
		fmt.Fprintf(out, "%2d. [%d] %s", i+1, r.Record.ID, r.Record.Name)
		if r.Score != nil {
			fmt.Fprintf(out, "  (score: %.4f)", *r.Score)
		}
		fmt.Fprintln(out)
		if r.Record.Kitchen != "" || r.Record.Type != "" {
			fmt.Fprintf(out, "    %s %s\n", r.Record.Kitchen, r.Record.Type)
		}
		if r.Record.Ingredients != "" {
			fmt.Fprintf(out, "    %s\n", truncate(r.Record.Ingredients, 100))
		}
	}
	return nil
}

// truncate shortens s to at most max runes, never splitting a UTF-8
// sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
