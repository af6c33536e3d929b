package sheet

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/http/httputil"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Get("/{id}/summary", h.summary)

		r.Post("/{id}/entries", h.addEntry)
		r.Get("/{id}/entries/{entry_id}", h.getEntry)
		r.Put("/{id}/entries/{entry_id}", h.updateEntry)
		r.Delete("/{id}/entries/{entry_id}", h.deleteEntry)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter expense.ListFilter

	q := r.URL.Query()

	if s := q.Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			httputil.Error(w, r, httputil.BadRequest("year must be a number"))
			return
		}

		filter.Year = new(year)
	}

	if s := q.Get("month"); s != "" {
		month, err := strconv.Atoi(s)
		if err != nil || month < 1 || month > 12 {
			httputil.Error(w, r, httputil.BadRequest("month must be between 1 and 12"))
			return
		}

		filter.Month = new(month)
	}

	if s := q.Get("status"); s != "" {
		status := expense.Status(s)
		if !status.Valid() {
			httputil.Error(w, r, httputil.BadRequest("unknown status %q", s))
			return
		}

		filter.Status = new(status)
	}

	sheets, err := h.svc.ListSheets(r.Context(), actor(r), filter)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.SheetsFrom(sheets))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSheetRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	sheet, err := h.svc.CreateSheet(r.Context(), actor(r), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, api.SheetFrom(sheet))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	sheet, err := h.svc.GetSheet(r.Context(), actor(r), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.SheetFrom(sheet))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	var req api.UpdateSheetRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	sheet, err := h.svc.UpdateSheet(r.Context(), actor(r), id, req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.SheetFrom(sheet))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteSheet(r.Context(), actor(r), id); err != nil {
		httputil.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	_, sum, err := h.svc.Summary(r.Context(), actor(r), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.SummaryFrom(id, sum))
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	var req api.EntryRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	sheet, err := h.svc.AddEntry(r.Context(), actor(r), id, req.Params())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, api.SheetFrom(sheet))
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	entryID, err := httputil.UUIDParam(r, "entry_id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), actor(r), id, entryID)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.EntryFrom(entry))
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	entryID, err := httputil.UUIDParam(r, "entry_id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	var req api.EntryUpdateRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	sheet, err := h.svc.UpdateEntry(r.Context(), actor(r), id, entryID, req.Patch())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.SheetFrom(sheet))
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	entryID, err := httputil.UUIDParam(r, "entry_id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	sheet, err := h.svc.DeleteEntry(r.Context(), actor(r), id, entryID)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.SheetFrom(sheet))
}

func actor(r *http.Request) expense.Actor {
	a, _ := auth.ActorFrom(r.Context())
	return a
}
