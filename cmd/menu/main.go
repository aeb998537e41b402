package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/madang-hq/madang-menu/internal/app"
	"github.com/madang-hq/madang-menu/internal/config"
	"github.com/madang-hq/madang-menu/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "menu start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("menu starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	home, err := app.NewHome(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize home", "error", err)
		return err
	}

	if err := home.Run(ctx); err != nil {
		return fmt.Errorf("home run: %w", err)
	}

	snap := home.Snapshot()
	for _, c := range snap.Categories {
		marker := " "
		if c.ID == snap.Selected {
			marker = "*"
		}
		fmt.Printf("%s %d %s\n", marker, c.ID, c.Name)
	}
	if snap.Products != nil {
		fmt.Printf("\n%s (%s)\n", snap.Products.Category.Name, snap.Products.CountLabel())
		for _, p := range snap.Products.Products {
			fmt.Printf("  %-30s %8s\n", p.Name, p.FormattedPrice())
		}
	}
	return nil
}
