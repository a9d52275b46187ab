package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/application/migration"
	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/domain/snapshot"
	"github.com/storesync/migrator/internal/infrastructure/config"
	"github.com/storesync/migrator/internal/infrastructure/logger"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

func main() {
	var (
		configPath   string
		snapshotPath string
		logLevel     string
		dryRun       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file (default: ./config.toml)")
	flag.StringVar(&snapshotPath, "snapshot", "", "Path to snapshot file (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.BoolVar(&dryRun, "dry-run", false, "Load and validate the snapshot without contacting the target")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if snapshotPath != "" {
		cfg.Snapshot.Path = snapshotPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	snap, err := snapshot.Load(cfg.Snapshot.Path)
	if err != nil {
		log.Fatal("Failed to load snapshot", zap.Error(err))
	}
	if len(cfg.Snapshot.BundleDirs) > 0 {
		snap.BundleDirs = append(snap.BundleDirs, cfg.Snapshot.BundleDirs...)
	}

	if dryRun {
		if err := snap.Validate(); err != nil {
			log.Fatal("Snapshot validation failed", zap.Error(err))
		}
		categories, tags := replication.CollectTaxonomySeeds(snap.Products)
		attributes := replication.CollectAttributeSeeds(snap.Products)
		log.Info("Dry run: snapshot is valid",
			zap.Int("entities", snap.EntityCount()),
			zap.Int("products", len(snap.Products)),
			zap.Int("customers", len(snap.Customers)),
			zap.Int("coupons", len(snap.Coupons)),
			zap.Int("orders", len(snap.Orders)),
			zap.Int("categories", len(categories)),
			zap.Int("tags", len(tags)),
			zap.Int("attributes", len(attributes)),
		)
		return
	}

	sender := target.NewSender(target.SenderConfig{
		Timeout:           cfg.Sender.Timeout,
		MaxAttempts:       cfg.Sender.MaxAttempts,
		InitialInterval:   cfg.Sender.InitialInterval,
		MaxInterval:       cfg.Sender.MaxInterval,
		RequestsPerSecond: cfg.Sender.RequestsPerSecond,
	})
	client, err := target.NewClient(target.Credentials{
		BaseURL:        cfg.Target.BaseURL,
		ConsumerKey:    cfg.Target.ConsumerKey,
		ConsumerSecret: cfg.Target.ConsumerSecret,
	}, sender, log)
	if err != nil {
		log.Fatal("Failed to create target client", zap.Error(err))
	}

	// Ctrl-C cancels the run at the next entity boundary.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := migration.NewEngine(client, log, func(message string) {
		fmt.Println(message)
	})

	result, err := engine.Run(ctx, snap)
	if err != nil {
		log.Fatal("Replication failed", zap.Error(err))
	}

	log.Info("Replication finished",
		zap.Int("products_created", result.Products.Created),
		zap.Int("products_updated", result.Products.Updated),
		zap.Int("customers_created", result.Customers.Created),
		zap.Int("customers_updated", result.Customers.Updated),
		zap.Int("coupons_created", result.Coupons.Created),
		zap.Int("coupons_updated", result.Coupons.Updated),
		zap.Int("orders_created", result.Orders.Created),
		zap.Int("orders_skipped", result.Orders.Skipped),
	)
}
