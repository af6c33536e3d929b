package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gastos/internal/amqp"
	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/config"
	"github.com/MrJamesThe3rd/gastos/internal/database"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/gastos/internal/expense/store"
	"github.com/MrJamesThe3rd/gastos/internal/export"
	gastosHttp "github.com/MrJamesThe3rd/gastos/internal/http"
	exportHandler "github.com/MrJamesThe3rd/gastos/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/gastos/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/gastos/internal/http/matching"
	receiptHandler "github.com/MrJamesThe3rd/gastos/internal/http/receipt"
	sheetHandler "github.com/MrJamesThe3rd/gastos/internal/http/sheet"
	"github.com/MrJamesThe3rd/gastos/internal/importer"
	"github.com/MrJamesThe3rd/gastos/internal/importer/statement"
	"github.com/MrJamesThe3rd/gastos/internal/logging"
	"github.com/MrJamesThe3rd/gastos/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/gastos/internal/matching/store"
	"github.com/MrJamesThe3rd/gastos/internal/receipt"
	"github.com/MrJamesThe3rd/gastos/internal/receipt/drive"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.App.LogLevel, "api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	janitor, closeBroker := receiptJanitor(cfg)
	defer closeBroker()

	receiptService := receiptStorage(ctx, cfg)

	var (
		matchingService = matching.NewService(matchingStore.New(db))
		expenseService  = expense.NewService(expenseStore.New(db), janitor, matchingService, cfg.Mileage.DefaultKmRate)
		importService   = importer.NewService(statement.NewParser(), matchingService)
		exportService   *export.Service
	)

	// A nil *receipt.Service must not become a non-nil ReceiptOpener.
	if receiptService != nil {
		exportService = export.NewService(expenseService, receiptService, cfg.Export.ZipConcurrency)
	} else {
		exportService = export.NewService(expenseService, nil, cfg.Export.ZipConcurrency)
	}

	var (
		sheetH    = sheetHandler.NewHandler(expenseService)
		importH   = importHandler.NewHandler(importService, expenseService)
		exportH   = exportHandler.NewHandler(exportService)
		matchingH = matchingHandler.NewHandler(matchingService)
		receiptH  *receiptHandler.Handler
	)

	if receiptService != nil {
		receiptH = receiptHandler.NewHandler(receiptService, cfg.Drive.MaxUploadBytes)
	}

	router := gastosHttp.New(gastosHttp.Options{
		Auth:        auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		DB:          db,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, sheetH, importH, receiptH, exportH, matchingH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "receipts", receiptService != nil)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// receiptStorage returns nil when Drive is not configured; the receipt
// routes then answer 503.
func receiptStorage(ctx context.Context, cfg *config.Config) *receipt.Service {
	if !cfg.DriveConfigured() {
		slog.Warn("google drive is not configured, receipt uploads are disabled")
		return nil
	}

	storage, err := drive.New(ctx, cfg.Drive.CredentialsFile, cfg.Drive.CredentialsJSON)
	if err != nil {
		slog.Error("failed to initialize google drive", "error", err)
		os.Exit(1)
	}

	return receipt.NewService(storage, cfg.Drive.RootFolder, cfg.Drive.MaxUploadBytes)
}

func receiptJanitor(cfg *config.Config) (*amqp.Janitor, func()) {
	if cfg.AMQP.URL == "" {
		slog.Warn("AMQP_URL not set, orphaned receipts will not be cleaned up")
		return amqp.NewJanitor(nil), func() {}
	}

	client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		slog.Error("failed to connect to AMQP broker", "error", err)
		os.Exit(1)
	}

	return amqp.NewJanitor(client), func() {
		if err := client.Close(); err != nil {
			slog.Error("failed to close AMQP client", "error", err)
		}
	}
}
