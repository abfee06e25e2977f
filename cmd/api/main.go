package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/despesas-dev/despesas/internal/analytics"
	"github.com/despesas-dev/despesas/internal/config"
	"github.com/despesas-dev/despesas/internal/database"
	"github.com/despesas-dev/despesas/internal/expense"
	expStore "github.com/despesas-dev/despesas/internal/expense/store"
	appHttp "github.com/despesas-dev/despesas/internal/http"
	analyticsHandler "github.com/despesas-dev/despesas/internal/http/analytics"
	expenseHandler "github.com/despesas-dev/despesas/internal/http/expense"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		expenseService   = expense.NewService(expStore.New(db))
		analyticsService = analytics.NewService(expenseService)
	)

	router := appHttp.New(
		expenseHandler.NewHandler(expenseService),
		analyticsHandler.NewHandler(analyticsService),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
