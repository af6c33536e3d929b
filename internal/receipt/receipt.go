// Package receipt stores receipt files for expense entries.
package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("receipt file not found")
	ErrUnsupportedType = errors.New("unsupported file type: allowed types are JPEG, PNG and PDF")
	ErrTooLarge        = errors.New("receipt file is too large")
)

// extensions maps the accepted content types to file extensions.
var extensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"application/pdf": "pdf",
}

// File is a stored receipt.
type File struct {
	ID             string
	Name           string
	WebViewLink    string
	WebContentLink string
}

//go:generate mockgen -source=receipt.go -destination=storage_mock.go -package=receipt
type Storage interface {
	// EnsureFolder returns the id of folder name under parentID, creating it
	// when missing. An empty parentID means the storage root.
	EnsureFolder(ctx context.Context, name, parentID string) (string, error)
	Exists(ctx context.Context, folderID, name string) (bool, error)
	Upload(ctx context.Context, folderID, name, contentType string, body io.Reader) (*File, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID string) error
}

type Service struct {
	storage    Storage
	rootFolder string
	maxBytes   int64
}

func NewService(storage Storage, rootFolder string, maxBytes int64) *Service {
	return &Service{storage: storage, rootFolder: rootFolder, maxBytes: maxBytes}
}

type UploadParams struct {
	SheetName   string
	ExpenseDate time.Time
	Project     string
	Company     string
	ContentType string // Sniffed from the body when empty
	Size        int64  // -1 when unknown
	Body        io.Reader
}

// Upload stores a receipt under <root>/<sheet name>/ as
// YYYY-MM-DD[_project][_company].ext, numbering the name when it is taken.
func (s *Service) Upload(ctx context.Context, p UploadParams) (*File, error) {
	if s.maxBytes > 0 && p.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, p.Size, s.maxBytes)
	}

	body := p.Body

	contentType := strings.TrimSpace(strings.Split(p.ContentType, ";")[0])
	if contentType == "" || contentType == "application/octet-stream" {
		head := make([]byte, 512)
		n, err := io.ReadFull(p.Body, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading receipt: %w", err)
		}

		contentType = strings.Split(http.DetectContentType(head[:n]), ";")[0]
		body = io.MultiReader(bytes.NewReader(head[:n]), p.Body)
	}

	ext, ok := extensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedType, contentType)
	}

	rootID, err := s.storage.EnsureFolder(ctx, s.rootFolder, "")
	if err != nil {
		return nil, fmt.Errorf("ensuring root folder: %w", err)
	}

	folderName := Sanitize(p.SheetName)
	if folderName == "" {
		folderName = "gastos-hoja-" + uuid.NewString()[:8]
	}

	folderID, err := s.storage.EnsureFolder(ctx, folderName, rootID)
	if err != nil {
		return nil, fmt.Errorf("ensuring sheet folder: %w", err)
	}

	name, err := s.availableName(ctx, folderID, BaseName(p.ExpenseDate, p.Project, p.Company), ext)
	if err != nil {
		return nil, err
	}

	f, err := s.storage.Upload(ctx, folderID, name, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("uploading receipt: %w", err)
	}

	return f, nil
}

// availableName returns base.ext, or base_NNN.ext with the first free number.
func (s *Service) availableName(ctx context.Context, folderID, base, ext string) (string, error) {
	name := base + "." + ext

	for i := 1; ; i++ {
		taken, err := s.storage.Exists(ctx, folderID, name)
		if err != nil {
			return "", fmt.Errorf("checking receipt name: %w", err)
		}

		if !taken {
			return name, nil
		}

		name = fmt.Sprintf("%s_%03d.%s", base, i, ext)
	}
}

func (s *Service) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, fileID)
}

// Delete removes receipt files. Files that are already gone are ignored.
func (s *Service) Delete(ctx context.Context, fileIDs ...string) error {
	var errs []error

	for _, id := range fileIDs {
		if err := s.storage.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, fmt.Errorf("deleting receipt %s: %w", id, err))
		}
	}

	return errors.Join(errs...)
}

// BaseName builds the receipt name without extension.
func BaseName(date time.Time, project, company string) string {
	parts := []string{date.Format(time.DateOnly)}

	for _, p := range []string{project, company} {
		if p = Sanitize(p); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, "_")
}

var unsafeChars = regexp.MustCompile(`[/\\:*?"<>|]`)

// Sanitize makes s safe to use as a file or folder name.
func Sanitize(s string) string {
	return strings.TrimSpace(unsafeChars.ReplaceAllString(s, "-"))
}
