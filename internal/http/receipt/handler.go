package receipt

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/http/httputil"
	"github.com/MrJamesThe3rd/gastos/internal/receipt"
)

// formOverhead leaves room for the text fields next to the file.
const formOverhead = 1 << 20

type Handler struct {
	svc      *receipt.Service
	maxBytes int64
}

func NewHandler(svc *receipt.Service, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
}

// upload stores a receipt file. Form fields: file, sheet_name, expense_date
// (YYYY-MM-DD) and the optional project and company.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)

	if err := r.ParseMultipartForm(h.maxBytes + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.Error(w, r, receipt.ErrTooLarge)
			return
		}

		httputil.Error(w, r, httputil.BadRequest("failed to parse form: %v", err))

		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.Error(w, r, httputil.BadRequest("file field is required"))
		return
	}
	defer file.Close()

	date, err := api.ParseDate(r.FormValue("expense_date"))
	if err != nil {
		httputil.Error(w, r, httputil.BadRequest("expense_date: %v", err))
		return
	}

	sheetName := strings.TrimSpace(r.FormValue("sheet_name"))
	if sheetName == "" {
		httputil.Error(w, r, httputil.BadRequest("sheet_name field is required"))
		return
	}

	f, err := h.svc.Upload(r.Context(), receipt.UploadParams{
		SheetName:   sheetName,
		ExpenseDate: date.Time,
		Project:     r.FormValue("project"),
		Company:     r.FormValue("company"),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, api.ReceiptUploadResponse{
		GoogleFileID:   f.ID,
		FileName:       f.Name,
		WebViewLink:    f.WebViewLink,
		WebContentLink: f.WebContentLink,
	})
}
