// Package client is a typed client for the expense sheet REST API.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response. Errors is set for 422 validation failures.
type APIError struct {
	Status int
	Detail string
	Errors []api.FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		msgs := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			msgs = append(msgs, fieldName(fe)+": "+fe.Msg)
		}

		return fmt.Sprintf("api error %d: %s", e.Status, strings.Join(msgs, "; "))
	}

	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}

// FieldErrors maps each invalid field to its message.
func (e *APIError) FieldErrors() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fieldName(fe)] = fe.Msg
	}

	return out
}

func fieldName(fe api.FieldError) string {
	if len(fe.Loc) == 0 {
		return ""
	}

	return fe.Loc[len(fe.Loc)-1]
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api/v1". A nil httpClient uses a default one.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

type ListFilter struct {
	Year   int
	Month  int
	Status expense.Status
}

func (f ListFilter) query() url.Values {
	q := url.Values{}

	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}

	if f.Month != 0 {
		q.Set("month", strconv.Itoa(f.Month))
	}

	if f.Status != "" {
		q.Set("status", string(f.Status))
	}

	return q
}

func (c *Client) ListSheets(ctx context.Context, filter ListFilter) ([]api.Sheet, error) {
	var out []api.Sheet
	if err := c.doJSON(ctx, http.MethodGet, "/expense-sheets/", filter.query(), nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateSheet(ctx context.Context, req api.CreateSheetRequest) (*api.Sheet, error) {
	var out api.Sheet
	if err := c.doJSON(ctx, http.MethodPost, "/expense-sheets/", nil, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) GetSheet(ctx context.Context, id uuid.UUID) (*api.Sheet, error) {
	var out api.Sheet
	if err := c.doJSON(ctx, http.MethodGet, sheetPath(id), nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateSheet(ctx context.Context, id uuid.UUID, req api.UpdateSheetRequest) (*api.Sheet, error) {
	var out api.Sheet
	if err := c.doJSON(ctx, http.MethodPut, sheetPath(id), nil, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteSheet(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, sheetPath(id), nil, nil, nil)
}

func (c *Client) Summary(ctx context.Context, id uuid.UUID) (*api.Summary, error) {
	var out api.Summary
	if err := c.doJSON(ctx, http.MethodGet, sheetPath(id)+"/summary", nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// AddEntry adds an entry and returns the updated sheet.
func (c *Client) AddEntry(ctx context.Context, sheetID uuid.UUID, req api.EntryRequest) (*api.Sheet, error) {
	var out api.Sheet
	if err := c.doJSON(ctx, http.MethodPost, sheetPath(sheetID)+"/entries", nil, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) GetEntry(ctx context.Context, sheetID, entryID uuid.UUID) (*api.Entry, error) {
	var out api.Entry
	if err := c.doJSON(ctx, http.MethodGet, entryPath(sheetID, entryID), nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateEntry changes or moves an entry and returns its original sheet.
func (c *Client) UpdateEntry(ctx context.Context, sheetID, entryID uuid.UUID, req api.EntryUpdateRequest) (*api.Sheet, error) {
	var out api.Sheet
	if err := c.doJSON(ctx, http.MethodPut, entryPath(sheetID, entryID), nil, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteEntry(ctx context.Context, sheetID, entryID uuid.UUID) (*api.Sheet, error) {
	var out api.Sheet
	if err := c.doJSON(ctx, http.MethodDelete, entryPath(sheetID, entryID), nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// ImportStatement uploads a bank statement CSV into the sheet. With dryRun
// the server only reports what it would import.
func (c *Client) ImportStatement(ctx context.Context, sheetID uuid.UUID, filename string, content io.Reader, dryRun bool) (*api.ImportResponse, error) {
	var q url.Values
	if dryRun {
		q = url.Values{"dry_run": {"true"}}
	}

	body, contentType, err := multipartBody(nil, filename, "text/csv", content)
	if err != nil {
		return nil, err
	}

	var out api.ImportResponse
	if err := c.do(ctx, http.MethodPost, sheetPath(sheetID)+"/import", q, contentType, body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

type UploadReceiptParams struct {
	SheetName   string
	ExpenseDate time.Time
	Project     string
	Company     string
	FileName    string
	ContentType string // Detected from the content when empty
	Content     io.Reader
}

func (c *Client) UploadReceipt(ctx context.Context, p UploadReceiptParams) (*api.ReceiptUploadResponse, error) {
	fields := map[string]string{
		"sheet_name":   p.SheetName,
		"expense_date": api.DateOf(p.ExpenseDate).String(),
		"project":      p.Project,
		"company":      p.Company,
	}

	body, contentType, err := multipartBody(fields, p.FileName, p.ContentType, p.Content)
	if err != nil {
		return nil, err
	}

	var out api.ReceiptUploadResponse
	if err := c.do(ctx, http.MethodPost, "/receipts/", nil, contentType, body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// File is a downloaded export.
type File struct {
	Name    string
	Content []byte
}

func (c *Client) ExportExcel(ctx context.Context, sheetID uuid.UUID) (*File, error) {
	var out api.ExportResponse
	if err := c.doJSON(ctx, http.MethodPost, "/export/expense-sheet/export-excel", nil, api.ExportRequest{SheetID: sheetID}, &out); err != nil {
		return nil, err
	}

	content, err := base64.StdEncoding.DecodeString(out.FileContentBase64)
	if err != nil {
		return nil, fmt.Errorf("decoding export content: %w", err)
	}

	return &File{Name: out.FileName, Content: content}, nil
}

func (c *Client) ReceiptsZip(ctx context.Context, sheetID uuid.UUID) (*File, error) {
	resp, err := c.send(ctx, http.MethodGet, "/export/expense-sheet/"+sheetID.String()+"/receipts-zip", nil, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading receipts archive: %w", err)
	}

	name := sheetID.String() + "_Tickets.zip"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}

	return &File{Name: name, Content: content}, nil
}

// SuggestCategory returns the learned category for merchant, or "" when
// there is none.
func (c *Client) SuggestCategory(ctx context.Context, merchant string) (expense.Category, error) {
	var out api.CategorySuggestion
	if err := c.doJSON(ctx, http.MethodGet, "/matching/suggest", url.Values{"merchant": {merchant}}, nil, &out); err != nil {
		return "", err
	}

	return out.Category, nil
}

func (c *Client) LearnCategory(ctx context.Context, merchant string, category expense.Category) error {
	req := api.LearnCategoryRequest{Merchant: merchant, Category: category}
	return c.doJSON(ctx, http.MethodPost, "/matching/", nil, req, nil)
}

func sheetPath(id uuid.UUID) string {
	return "/expense-sheets/" + id.String()
}

func entryPath(sheetID, entryID uuid.UUID) string {
	return sheetPath(sheetID) + "/entries/" + entryID.String()
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var (
		body        io.Reader
		contentType string
	)

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	return c.do(ctx, method, path, query, contentType, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	resp, err := c.send(ctx, method, path, query, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}

	return nil
}

// send performs the request and turns non-2xx responses into *APIError. The
// caller closes the body of a successful response.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()

	return nil, decodeError(resp)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(data) == 0 {
		apiErr.Detail = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var payload struct {
		Detail string           `json:"detail"`
		Errors []api.FieldError `json:"errors"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Detail = strings.TrimSpace(string(data))
		return apiErr
	}

	apiErr.Detail = payload.Detail
	apiErr.Errors = payload.Errors

	if apiErr.Detail == "" && len(apiErr.Errors) == 0 {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

func multipartBody(fields map[string]string, filename, contentType string, content io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if v == "" {
			continue
		}

		if err := mw.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", k, err)
		}
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", filename, err)
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}
