package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"solana-launch-alerts/internal/discovery"
	"solana-launch-alerts/internal/enrichment"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <base64 payload | \"Program data: ...\" line>",
	Short: "Decode a creation event payload and derive its curve token account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encoded := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(args[0]), discovery.ProgramDataPrefix))
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("base64: %w", err)
		}

		event, err := discovery.DecodeCreateEvent(data)
		if err != nil {
			return err
		}
		derived, err := enrichment.NewDefaultDeriver().Derive(context.Background(), event)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:                %q\n", event.Name)
		fmt.Fprintf(out, "Symbol:              %q\n", event.Symbol)
		fmt.Fprintf(out, "URI:                 %q\n", event.URI)
		fmt.Fprintf(out, "Mint:                %s\n", event.Mint)
		fmt.Fprintf(out, "Bonding curve:       %s\n", event.BondingCurve)
		fmt.Fprintf(out, "Creator:             %s\n", event.Creator)
		fmt.Fprintf(out, "Curve token account: %s (bump %d)\n", derived.Address, derived.Bump)
		return nil
	},
}
