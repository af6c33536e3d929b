package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

var errNoReceiptStorage = errors.New("receipt storage is not configured")

type download struct {
	name    string
	content []byte
	err     error
}

// ReceiptsZip bundles the receipts of a sheet into one folder of a ZIP archive.
// Failed downloads and entries without a recorded file name leave a text
// note in the archive instead of failing the export.
func (s *Service) ReceiptsZip(ctx context.Context, actor expense.Actor, sheetID uuid.UUID) (*File, error) {
	sheet, err := s.sheets.GetSheet(ctx, actor, sheetID)
	if err != nil {
		return nil, err
	}

	folder := safeName(sheet.Name)
	if folder == "" {
		folder = "Hoja_" + sheet.ID.String()[:8]
	}

	downloads := make([]*download, len(sheet.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, e := range sheet.Entries {
		if !e.HasReceipt() || e.Receipt.FileName == "" {
			continue
		}

		d := &download{name: receiptName(e)}
		downloads[i] = d

		g.Go(func() error {
			d.content, d.err = s.fetch(gctx, e.Receipt.DriveID)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("downloading receipts: %w", err)
	}

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	found := false

	for i, e := range sheet.Entries {
		if !e.HasReceipt() {
			continue
		}

		found = true

		var name, body string

		switch d := downloads[i]; {
		case d == nil:
			name = "SKIPPED_MISSING_FILENAME_ID_" + e.Receipt.DriveID + ".txt"
			body = fmt.Sprintf("Skipped downloading file with Drive ID: %s because its name was not recorded in the expense entry.", e.Receipt.DriveID)
		case d.err != nil:
			slog.WarnContext(ctx, "failed to download receipt", "sheet_id", sheet.ID, "drive_id", e.Receipt.DriveID, "error", d.err)
			name = "ERROR_DOWNLOADING_" + safeName(e.Receipt.FileName) + ".txt"
			body = fmt.Sprintf("Could not download file: %s (Drive ID: %s). Error: %v", e.Receipt.FileName, e.Receipt.DriveID, d.err)
		default:
			if err := writeZipFile(zw, path.Join(folder, d.name), d.content); err != nil {
				return nil, err
			}

			continue
		}

		if err := writeZipFile(zw, path.Join(folder, name), []byte(body)); err != nil {
			return nil, err
		}
	}

	if !found {
		msg := []byte("No receipts with Google Drive links were found in this expense sheet.")
		if err := writeZipFile(zw, path.Join(folder, "NO_RECEIPTS_FOUND.txt"), msg); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return &File{Name: folder + "_Tickets.zip", Content: buf.Bytes()}, nil
}

func (s *Service) fetch(ctx context.Context, driveID string) ([]byte, error) {
	if s.receipts == nil {
		return nil, errNoReceiptStorage
	}

	rc, err := s.receipts.Open(ctx, driveID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// receiptName is the entry's file name reduced to safe characters, or
// ticket_<entry id><ext> when nothing is left.
func receiptName(e *expense.Entry) string {
	if name := safeName(e.Receipt.FileName); name != "" {
		return name
	}

	ext := path.Ext(e.Receipt.FileName)
	if ext == "" {
		ext = ".dat"
	}

	return "ticket_" + e.ID.String() + ext
}

func writeZipFile(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", name, err)
	}

	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("writing %s to archive: %w", name, err)
	}

	return nil
}
