// Package export renders expense sheets as Excel workbooks and receipt archives.
package export

import (
	"context"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

// SheetReader loads a sheet with its entries on behalf of actor.
type SheetReader interface {
	GetSheet(ctx context.Context, actor expense.Actor, id uuid.UUID) (*expense.Sheet, error)
}

// ReceiptOpener streams a stored receipt file.
type ReceiptOpener interface {
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// File is a generated export.
type File struct {
	Name    string
	Content []byte
}

// Service handles the export of expense sheets and their receipts.
type Service struct {
	sheets      SheetReader
	receipts    ReceiptOpener
	concurrency int
	now         func() time.Time
}

// NewService creates a new export Service. receipts may be nil when no
// receipt storage is configured; archives then report every download as failed.
func NewService(sheets SheetReader, receipts ReceiptOpener, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Service{
		sheets:      sheets,
		receipts:    receipts,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// WithClock overrides the clock used for export file names.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// safeName keeps only letters, digits, dots, underscores and dashes.
func safeName(s string) string {
	return unsafeKeyChars.ReplaceAllString(s, "")
}
