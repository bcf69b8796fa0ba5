package main

import (
	"os"

	"github.com/spf13/cobra"

	"solana-launch-alerts/internal/ingestion"
	"solana-launch-alerts/internal/pipeline"
)

var (
	fixturesCount int
	fixturesSeed  int64
	fixturesOut   string
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Write synthetic notifications as JSON lines for replay",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if fixturesOut != "" {
			f, err := os.Create(fixturesOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return ingestion.WriteJSONL(out, pipeline.NewFixtures(fixturesSeed).Stream(fixturesCount))
	},
}

func init() {
	fixturesCmd.Flags().IntVar(&fixturesCount, "count", 100, "number of notifications")
	fixturesCmd.Flags().Int64Var(&fixturesSeed, "seed", 1, "generator seed")
	fixturesCmd.Flags().StringVarP(&fixturesOut, "out", "o", "", "output file (default stdout)")
}
