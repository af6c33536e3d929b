package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gastos/internal/amqp"
	"github.com/MrJamesThe3rd/gastos/internal/config"
	"github.com/MrJamesThe3rd/gastos/internal/logging"
	"github.com/MrJamesThe3rd/gastos/internal/receipt"
	"github.com/MrJamesThe3rd/gastos/internal/receipt/drive"
)

// The receipt worker deletes the Drive files that the API queued for cleanup
// after entries, sheets or replaced receipts dropped them.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.App.LogLevel, "receipt-worker")

	if cfg.AMQP.URL == "" {
		slog.Error("AMQP_URL is required")
		os.Exit(1)
	}

	if !cfg.DriveConfigured() {
		slog.Error("DRIVE_CREDENTIALS_FILE or DRIVE_CREDENTIALS_JSON is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := drive.New(ctx, cfg.Drive.CredentialsFile, cfg.Drive.CredentialsJSON)
	if err != nil {
		slog.Error("failed to initialize google drive", "error", err)
		os.Exit(1)
	}

	receipts := receipt.NewService(storage, cfg.Drive.RootFolder, cfg.Drive.MaxUploadBytes)

	client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		slog.Error("failed to connect to AMQP broker", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	handle := func(ctx context.Context, msg *amqp.ReceiptCleanupMessage) error {
		if err := receipts.Delete(ctx, msg.DriveIDs...); err != nil {
			return err
		}

		slog.InfoContext(ctx, "receipts deleted", "receipts", msg.DriveIDs, "queued_at", msg.Timestamp)

		return nil
	}

	slog.Info("receipt worker started", "queue", cfg.AMQP.Queue)

	if err := client.ConsumeReceiptCleanup(ctx, handle); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("consuming receipt cleanup failed", "error", err)
		os.Exit(1)
	}

	slog.Info("receipt worker stopped")
}
