package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"solana-launch-alerts/internal/alert"
	"solana-launch-alerts/internal/config"
	"solana-launch-alerts/internal/enrichment"
	"solana-launch-alerts/internal/observability"
	"solana-launch-alerts/internal/pipeline"
	"solana-launch-alerts/internal/scoring"
	"solana-launch-alerts/internal/solana"
)

func componentLogger(prefix string) *log.Logger {
	return log.New(os.Stdout, prefix, log.LstdFlags)
}

// closers collects resources to release on shutdown.
type closers []io.Closer

func (c closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			logger.Printf("close: %v", err)
		}
	}
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// buildNotifier assembles every configured sink. With none configured, or
// when dryRun is set, alerts go to the log.
func buildNotifier(cfg *config.Config, dryRun bool) (alert.Notifier, closers, error) {
	if dryRun {
		return alert.NewLogNotifier(componentLogger("")), nil, nil
	}

	var (
		sinks []alert.Notifier
		res   closers
	)

	if cfg.Telegram.Enabled() {
		sinks = append(sinks, alert.NewTelegramNotifier(alert.TelegramConfig{
			APIURL:   cfg.Telegram.APIURL,
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
		}))
	}

	if cfg.NATS.URL != "" {
		conn, err := alert.ConnectNATS(cfg.NATS.URL, componentLogger("[nats] "))
		if err != nil {
			res.Close()
			return nil, nil, err
		}
		res = append(res, closeFunc(func() error { return conn.Drain() }))
		sinks = append(sinks, alert.NewNATSNotifier(conn, cfg.NATS.Subject))
	}

	if cfg.Kafka.Brokers != "" {
		producer, err := alert.NewKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			res.Close()
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}
		kafka := alert.NewKafkaNotifier(producer, cfg.Kafka.Topic)
		res = append(res, kafka)
		sinks = append(sinks, kafka)
	}

	if len(sinks) == 0 {
		logger.Println("No alert sink configured, alerts will be logged only")
		sinks = append(sinks, alert.NewLogNotifier(componentLogger("")))
	}

	return alert.NewMultiNotifier(sinks...), res, nil
}

// buildBalanceFetcher returns the RPC client, behind a Redis cache when configured.
func buildBalanceFetcher(cfg *config.Config, rpc *solana.HTTPClient) (enrichment.BalanceFetcher, closers, error) {
	if cfg.Redis.URL == "" {
		return rpc, nil, nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	cached := enrichment.NewCachedBalanceFetcher(rpc, client, cfg.Redis.TTL, componentLogger("[cache] "))
	return cached, closers{client}, nil
}

// buildPipeline wires the pipeline and its collaborators from cfg.
func buildPipeline(cfg *config.Config, dryRun bool, onResult func(pipeline.Result)) (*pipeline.Pipeline, *solana.HTTPClient, closers, error) {
	rpc := solana.NewHTTPClient(cfg.Solana.RPCURL)

	balances, res, err := buildBalanceFetcher(cfg, rpc)
	if err != nil {
		return nil, nil, nil, err
	}

	notifier, sinkClosers, err := buildNotifier(cfg, dryRun)
	if err != nil {
		res.Close()
		return nil, nil, nil, err
	}
	res = append(res, sinkClosers...)

	p, err := pipeline.New(pipeline.Options{
		Deriver:    enrichment.NewDefaultDeriver(),
		Reputation: enrichment.NewReputationChecker(balances),
		Market: enrichment.NewMarketEnricher(enrichment.MarketConfig{
			BaseURL:   cfg.Market.BaseURL,
			APIKey:    cfg.Market.APIKey,
			Chain:     cfg.Market.Chain,
			RateLimit: cfg.Market.RateLimit,
			Logger:    componentLogger(""),
		}),
		Notifier:    notifier,
		Scorer:      scoring.NewScorer(cfg.Scoring.Denylist),
		Threshold:   cfg.Scoring.Threshold,
		MaxInFlight: cfg.Pipeline.MaxInFlight,
		Overflow:    pipeline.OverflowPolicy(cfg.Pipeline.Overflow),
		Logger:      componentLogger(""),
		OnResult:    onResult,
	})
	if err != nil {
		res.Close()
		return nil, nil, nil, err
	}
	return p, rpc, res, nil
}

// startMetricsServer serves /metrics and /health until the process exits.
func startMetricsServer(addr string) {
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		logger.Printf("Starting metrics server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("Metrics server error: %v", err)
		}
	}()
}
