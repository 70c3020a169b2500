package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasteline/tasteline/internal/index"
	"github.com/tasteline/tasteline/internal/vector"
)

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus and index statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.Context(), cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output statistics as JSON")

	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, jsonOutput bool) error {
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	info, err := a.engine.CorpusInfo(ctx)
	if err != nil {
		return err
	}

	lexicalReady := index.Exists(a.cfg.LexicalIndexPath())
	embeddingsReady := vector.Exists(a.cfg.EmbeddingsPath())

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"corpus":          info,
			"lexical_index":   lexicalReady,
			"embedding_store": embeddingsReady,
			"data_dir":        a.cfg.Paths.DataDir,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Corpus\n")
	fmt.Fprintf(out, "  recipes:            %d\n", info.TotalRecords)
	fmt.Fprintf(out, "  tokens:             %d\n", info.TotalTokens)
	fmt.Fprintf(out, "  avg record length:  %.1f tokens\n", info.AverageRecordLength)
	fmt.Fprintf(out, "Indexes (%s)\n", a.cfg.Paths.DataDir)
	fmt.Fprintf(out, "  lexical index:      %s\n", readiness(lexicalReady))
	fmt.Fprintf(out, "  embedding store:    %s\n", readiness(embeddingsReady))
	return nil
}

func readiness(ok bool) string {
	if ok {
		return "ready"
	}
	return "missing (run 'tasteline build')"
}
