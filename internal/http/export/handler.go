package export

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/export"
	"github.com/MrJamesThe3rd/gastos/internal/http/httputil"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(middleware.AllowContentType("application/json")).Post("/expense-sheet/export-excel", h.excel)
	r.Get("/expense-sheet/{id}/receipts-zip", h.receiptsZip)
}

func (h *Handler) excel(w http.ResponseWriter, r *http.Request) {
	var req api.ExportRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	if req.SheetID == uuid.Nil {
		httputil.Error(w, r, httputil.BadRequest("sheet_id is required"))
		return
	}

	actor, _ := auth.ActorFrom(r.Context())

	file, err := h.svc.Excel(r.Context(), actor, req.SheetID)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.ExportResponse{
		FileName:          file.Name,
		FileContentBase64: base64.StdEncoding.EncodeToString(file.Content),
	})
}

func (h *Handler) receiptsZip(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	actor, _ := auth.ActorFrom(r.Context())

	file, err := h.svc.ReceiptsZip(r.Context(), actor, id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))

	if _, err := w.Write(file.Content); err != nil {
		slog.Error("failed to write archive", "error", err)
	}
}
