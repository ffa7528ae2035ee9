package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/internal/action"
	"github.com/HoangDucBach/sui-risk-indexer/internal/analyzer"
	"github.com/HoangDucBach/sui-risk-indexer/internal/events"
	"github.com/HoangDucBach/sui-risk-indexer/internal/indexer"
	"github.com/HoangDucBach/sui-risk-indexer/internal/ingest"
	"github.com/HoangDucBach/sui-risk-indexer/internal/metrics"
	"github.com/HoangDucBach/sui-risk-indexer/internal/pipeline"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/storage"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/config"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/kafka"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.Logging)
	defer log.Sync()

	log.Info("Starting sui-risk-indexer",
		zap.String("target_package", cfg.Indexer.TargetPackageID))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil && err != http.ErrServerClosed {
				log.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Detection pipeline
	parser := events.NewParser(log)
	sandwich := analyzer.NewSandwichAnalyzerWithConfig(log, parser, analyzer.SandwichConfig{
		MaxBufferSize:         cfg.Detection.SandwichMaxBufferSize,
		MaxCheckpointDistance: cfg.Detection.SandwichMaxCheckpointDistance,
		MinPriceImpactBps:     cfg.Detection.SandwichMinPriceImpactBps,
	})
	detection := pipeline.NewDetectionPipeline(log).
		AddDetector(pipeline.NewFlashLoanDetector(analyzer.NewFlashLoanAnalyzer(log, parser))).
		AddDetector(pipeline.NewPriceManipulationDetector(analyzer.NewPriceAnalyzer(log, parser))).
		AddDetector(pipeline.NewSandwichDetector(sandwich)).
		AddDetector(pipeline.NewOracleManipulationDetector(analyzer.NewOracleManipulationAnalyzerWithConfig(log, parser, analyzer.OracleConfig{
			MinPriceDeviationBps: cfg.Detection.OracleMinPriceDeviationBps,
			MinBorrowAmount:      cfg.Detection.OracleMinBorrowAmount,
		})))

	// Action pipeline
	actions := action.NewActionPipeline(log).
		AddHandler(action.NewLogAction()).
		AddHandler(action.NewAlertAction(log, cfg.Alert.WebhookURL, risk.ParseLevel(cfg.Alert.MinLevel)))

	producer, err := kafka.NewProducer(kafka.Config{
		Brokers:      cfg.Kafka.Brokers,
		Timeout:      cfg.Kafka.Timeout,
		Compression:  cfg.Kafka.Compression,
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to create kafka producer", zap.Error(err))
	}
	defer producer.Close()
	actions = actions.
		AddHandler(action.NewPublishAction(producer, cfg.Kafka.RiskEventTopic)).
		AddHandler(action.NewMockDefenseAction(log, true))

	// Optional watermark/dedup store
	var watermark *storage.WatermarkStore
	if cfg.Redis.Enabled {
		cache, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer cache.Close()
		watermark = storage.NewWatermarkStore(cache)
	}

	// Sinks
	var store *storage.Store
	if cfg.Database.URL != "" {
		store, err = storage.NewStore(cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to ensure database schema", zap.Error(err))
		}
	}

	var search *storage.Indexer
	if cfg.Elasticsearch.URL != "" {
		search, err = storage.NewIndexer(cfg.Elasticsearch, log)
		if err != nil {
			log.Fatal("Failed to create search indexer", zap.Error(err))
		}
		if err := search.EnsureIndex(ctx); err != nil {
			log.Warn("Failed to ensure search index, indexing may fail", zap.Error(err))
		}
	}

	handler := indexer.NewTransactionHandler(
		log, cfg.Indexer.TargetPackageID, detection, actions, watermark, m)

	source := ingest.NewKafkaSource(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.CheckpointTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer source.Close()

	runner := ingest.NewRunner(log, source, handler, ingest.RunnerOptions{
		Store:     store,
		Search:    search,
		Watermark: watermark,
		Metrics:   m,
	})

	// Keep the buffer gauge fresh alongside the run loop
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.SandwichBufferSize.Set(float64(sandwich.BufferSize()))
			}
		}
	}()

	if err := runner.Run(ctx); err != nil {
		log.Error("Runner stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Indexer stopped")
}
