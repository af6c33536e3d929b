// Package drive stores receipts in Google Drive.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/gastos/internal/receipt"
)

const folderMimeType = "application/vnd.google-apps.folder"

var _ receipt.Storage = (*Storage)(nil)

type Storage struct {
	files *gdrive.FilesService
}

// New authenticates with a service account, given either as a file path or
// as inline JSON.
func New(ctx context.Context, credentialsFile, credentialsJSON string) (*Storage, error) {
	opts := []option.ClientOption{option.WithScopes(gdrive.DriveScope)}

	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	default:
		return nil, errors.New("missing drive credentials")
	}

	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return NewFromService(svc), nil
}

func NewFromService(svc *gdrive.Service) *Storage {
	return &Storage{files: svc.Files}
}

func (s *Storage) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	q := fmt.Sprintf("mimeType = '%s' and name = '%s' and trashed = false", folderMimeType, escape(name))
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escape(parentID))
	}

	id, err := s.findOne(ctx, q)
	if err != nil {
		return "", fmt.Errorf("looking up folder %q: %w", name, err)
	}

	if id != "" {
		return id, nil
	}

	folder := &gdrive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		folder.Parents = []string{parentID}
	}

	created, err := s.files.Create(folder).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("creating folder %q: %w", name, err)
	}

	return created.Id, nil
}

func (s *Storage) Exists(ctx context.Context, folderID, name string) (bool, error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", escape(name), escape(folderID))

	id, err := s.findOne(ctx, q)
	if err != nil {
		return false, fmt.Errorf("looking up file %q: %w", name, err)
	}

	return id != "", nil
}

func (s *Storage) findOne(ctx context.Context, q string) (string, error) {
	list, err := s.files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}

	if len(list.Files) == 0 {
		return "", nil
	}

	return list.Files[0].Id, nil
}

func (s *Storage) Upload(ctx context.Context, folderID, name, contentType string, body io.Reader) (*receipt.File, error) {
	f := &gdrive.File{Name: name, MimeType: contentType, Parents: []string{folderID}}

	created, err := s.files.Create(f).
		Media(body, googleapi.ContentType(contentType)).
		Fields("id, name, webViewLink, webContentLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("uploading %q: %w", name, err)
	}

	return &receipt.File{
		ID:             created.Id,
		Name:           created.Name,
		WebViewLink:    created.WebViewLink,
		WebContentLink: created.WebContentLink,
	}, nil
}

func (s *Storage) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := s.files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, mapError(err)
	}

	return resp.Body, nil
}

func (s *Storage) Delete(ctx context.Context, fileID string) error {
	return mapError(s.files.Delete(fileID).Context(ctx).Do())
}

func mapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", receipt.ErrNotFound, gerr.Message)
	}

	return err
}

// escape quotes a value for a Drive query string literal.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
