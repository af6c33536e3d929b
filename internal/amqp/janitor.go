package amqp

import (
	"context"
	"log/slog"
)

type Publisher interface {
	PublishReceiptCleanup(ctx context.Context, driveIDs []string) error
}

// Janitor queues receipt files for deletion by the receipt worker.
// Without a broker it only logs the orphaned files.
type Janitor struct {
	pub Publisher
}

func NewJanitor(pub Publisher) *Janitor {
	return &Janitor{pub: pub}
}

func (j *Janitor) Discard(ctx context.Context, driveIDs []string) error {
	if len(driveIDs) == 0 {
		return nil
	}

	if j.pub == nil {
		slog.WarnContext(ctx, "receipt cleanup disabled, leaving files in storage", "receipts", driveIDs)
		return nil
	}

	return j.pub.PublishReceiptCleanup(ctx, driveIDs)
}
