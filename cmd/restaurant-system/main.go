package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/connections/database"
	"restaurant-storefront/internal/microservices/kitchen"
	"restaurant-storefront/internal/microservices/storefront"
	"restaurant-storefront/internal/microservices/storefront/repository"
)

func main() {
	mode := flag.String("mode", "storefront", "storefront | kitchen | migrate")
	cfgPath := flag.String("config", "config.yml", "path to YAML config (optional)")
	port := flag.Int("port", 0, "storefront: http port (overrides config)")
	maxConc := flag.Int("max-concurrent", 0, "storefront: max concurrent requests (overrides config)")
	workerName := flag.String("worker-name", "", "kitchen: unique worker name (default: hostname)")
	heartbeat := flag.Int("heartbeat-interval", 0, "kitchen: heartbeat interval seconds")
	prefetch := flag.Int("prefetch", 0, "kitchen: RabbitMQ prefetch")
	seed := flag.Bool("seed", false, "migrate: also load the demo restaurant")
	flag.Parse()

	lg := logger.New("bootstrap")
	defer lg.Sync()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *cfgPath})
		os.Exit(2)
	}
	if *port > 0 {
		cfg.HTTP.Port = *port
	}
	if *maxConc > 0 {
		cfg.HTTP.MaxConcurrent = *maxConc
	}
	if *workerName != "" {
		cfg.Kitchen.WorkerName = *workerName
	}
	if cfg.Kitchen.WorkerName == "" {
		cfg.Kitchen.WorkerName, _ = os.Hostname()
	}
	if *heartbeat > 0 {
		cfg.Kitchen.Heartbeat = time.Duration(*heartbeat) * time.Second
	}
	if *prefetch > 0 {
		cfg.Kitchen.Prefetch = *prefetch
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "storefront":
		err = storefront.Run(ctx, cfg, lg.Named("storefront"))
	case "kitchen":
		err = kitchen.Run(ctx, cfg, lg.Named("kitchen"))
	case "migrate":
		err = migrate(ctx, cfg, *seed, lg.Named("migrate"))
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: storefront | kitchen | migrate")
		os.Exit(2)
	}
	if err != nil {
		lg.Error("fatal", err, map[string]any{"mode": *mode})
		lg.Sync()
		os.Exit(1)
	}
}

func migrate(ctx context.Context, cfg *config.Config, seed bool, lg *logger.Logger) error {
	if !cfg.Database.Enabled() {
		return fmt.Errorf("migrate mode requires database config")
	}
	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	lg.Info("schema_applied", map[string]any{"database": cfg.Database.Database})

	if seed {
		if err := repository.Seed(ctx, db, repository.SeedMenu()); err != nil {
			return err
		}
		lg.Info("demo_seeded", map[string]any{"restaurant_id": repository.DemoRestaurantID})
	}
	return nil
}
