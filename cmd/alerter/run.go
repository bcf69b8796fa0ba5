package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"solana-launch-alerts/internal/ingestion"
	"solana-launch-alerts/internal/solana"
)

const shutdownGrace = 30 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the live log stream and send alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		ctx, stop := signalContext()
		defer stop()
		return runLive(ctx)
	},
}

// signalContext is cancelled on SIGINT/SIGTERM. A second signal, or a drain
// longer than shutdownGrace, exits immediately.
func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
			cancel()
		case <-done:
			return
		}
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(shutdownGrace):
			logger.Printf("Graceful shutdown timed out after %v, forcing exit", shutdownGrace)
			os.Exit(1)
		case <-done:
		}
	}()

	return ctx, func() {
		close(done)
		signal.Stop(sigCh)
		cancel()
	}
}

func runLive(ctx context.Context) error {
	startMetricsServer(cfg.Metrics.Addr)

	p, rpc, res, err := buildPipeline(cfg, false, nil)
	if err != nil {
		return err
	}
	defer res.Close()

	checkCtx, cancelCheck := context.WithTimeout(ctx, 10*time.Second)
	slot, err := rpc.GetSlot(checkCtx)
	cancelCheck()
	if err != nil {
		return fmt.Errorf("rpc check %s: %w", cfg.Solana.RPCURL, err)
	}
	logger.Printf("RPC reachable at slot %d", slot)

	wsConfig := solana.DefaultWSConfig()
	wsConfig.Logger = componentLogger("")
	ws, err := solana.NewWSClient(ctx, cfg.Solana.WSURL, &wsConfig)
	if err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}
	defer ws.Close()

	source := ingestion.NewWSSource(ws, ingestion.WSSourceOptions{
		Program: cfg.Solana.ProgramID,
		Logger:  componentLogger(""),
	})
	notifications, err := source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	logger.Printf("Watching program %s, threshold %d", cfg.Solana.ProgramID, p.Threshold())

	err = p.Run(ctx, notifications)
	if errors.Is(err, context.Canceled) {
		logger.Println("Shutdown complete")
		return nil
	}
	return err
}
