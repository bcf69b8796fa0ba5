package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"solana-launch-alerts/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = log.New(os.Stdout, "[alerter] ", log.LstdFlags)
)

var rootCmd = &cobra.Command{
	Use:   "alerter",
	Short: "Solana token launch alerter",
	Long: `alerter watches pump.fun creation events, scores each new token and
sends an alert when the score clears the configured threshold.

Configuration comes from an optional file (--config) and the environment,
e.g. SOLANA_RPC_URL, TELEGRAM_BOT_TOKEN, MARKET_API_KEY, SCORING_THRESHOLD.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.AddCommand(runCmd, decodeCmd, replayCmd, fixturesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
