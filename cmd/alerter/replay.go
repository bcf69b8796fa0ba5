package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"solana-launch-alerts/internal/config"
	"solana-launch-alerts/internal/ingestion"
	"solana-launch-alerts/internal/pipeline"
)

var replayDryRun bool

var replayCmd = &cobra.Command{
	Use:   "replay <file.jsonl>",
	Short: "Run recorded notifications through the pipeline",
	Long: `replay feeds JSON-lines recorded notifications through the full pipeline.
Enrichment still calls the configured RPC and market endpoints. The pipeline
waits for a free slot instead of dropping, whatever pipeline.overflow says.
Alerts are
only logged unless --dry-run=false, in which case every configured sink
receives them again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			mu     sync.Mutex
			counts = make(map[pipeline.Stage]int)
		)
		p, _, res, err := buildPipeline(replayConfig(cfg), replayDryRun, func(r pipeline.Result) {
			mu.Lock()
			counts[r.Stage]++
			mu.Unlock()
		})
		if err != nil {
			return err
		}
		defer res.Close()

		ctx, stop := signalContext()
		defer stop()

		notifications, err := ingestion.NewFileReplaySource(args[0], componentLogger("")).Subscribe(ctx)
		if err != nil {
			return err
		}
		if err := p.Run(ctx, notifications); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		stages := make([]string, 0, len(counts))
		for stage := range counts {
			stages = append(stages, string(stage))
		}
		sort.Strings(stages)
		for _, stage := range stages {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d\n", stage, counts[pipeline.Stage(stage)])
		}
		return nil
	},
}

// replayConfig returns a copy of c that waits for a free pipeline slot
// instead of dropping.
func replayConfig(c *config.Config) *config.Config {
	out := *c
	out.Pipeline.Overflow = string(pipeline.OverflowBlock)
	return &out
}

func init() {
	replayCmd.Flags().BoolVar(&replayDryRun, "dry-run", true, "log alerts instead of delivering them")
}
