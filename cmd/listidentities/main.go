package main

import (
	"context"
	"os"
	"os/signal"

	"learner-portal/internal/admin"
	"learner-portal/internal/config"
	"learner-portal/internal/logger"
)

func main() {
	logger.InitWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := admin.NewListCommand(func() (admin.RowSource, error) {
		cfg, err := config.LoadAdmin()
		if err != nil {
			return nil, err
		}
		return admin.NewSupabaseSource(cfg.URL, cfg.ServiceRoleKey)
	})

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("listidentities failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
