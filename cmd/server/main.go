package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/config"
	"cashtrackr/internal/mail"
	"cashtrackr/internal/middleware"
	"cashtrackr/internal/server"
	"cashtrackr/internal/service"
	"cashtrackr/internal/storage/sqlite"
	"cashtrackr/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var sender mail.Sender
	if cfg.SMTPHost != "" {
		sender = mail.NewSMTPSender(cfg.SMTPAddr(), cfg.MailFrom, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
		slog.Info("Mail sender configured", "relay", cfg.SMTPAddr())
	} else {
		sender = &mail.LogSender{}
		slog.Warn("No SMTP relay configured, account emails will be logged")
	}

	hasher := auth.NewBcryptHasher(0)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	accounts := service.NewAccountService(store, hasher, jwtManager, sender, cfg.ActionTokenTTL, slog.Default())
	budgets := service.NewBudgetService(store, slog.Default())
	expenses := service.NewExpenseService(store, slog.Default())

	router := server.NewRouter(server.Deps{
		Accounts:    accounts,
		Budgets:     budgets,
		Expenses:    expenses,
		JWTManager:  jwtManager,
		AuthLimiter: middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
