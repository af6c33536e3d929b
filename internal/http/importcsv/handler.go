package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/http/httputil"
	"github.com/MrJamesThe3rd/gastos/internal/importer"
)

const maxStatementBytes = 10 << 20

type Handler struct {
	importSvc  *importer.Service
	expenseSvc *expense.Service
}

func NewHandler(importSvc *importer.Service, expenseSvc *expense.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		expenseSvc: expenseSvc,
	}
}

// Routes mounts under /expense-sheets/{id}/import.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
}

// importStatement turns a statement CSV into entries of the sheet. With
// ?dry_run=true nothing is saved and the planned result is returned.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxStatementBytes)

	if err := r.ParseMultipartForm(maxStatementBytes); err != nil {
		httputil.Error(w, r, httputil.BadRequest("failed to parse form: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.Error(w, r, httputil.BadRequest("file field is required"))
		return
	}
	defer file.Close()

	actor, _ := auth.ActorFrom(r.Context())

	sheet, err := h.expenseSvc.GetSheet(r.Context(), actor, id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	plan, err := h.importSvc.Plan(r.Context(), sheet, file)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	resp := api.ImportResponse{
		Profile: plan.Profile,
		Charset: string(plan.Charset),
		Planned: len(plan.Entries),
		Credits: plan.Credits,
		Skipped: make([]api.SkippedRow, 0, len(plan.Skipped)),
	}

	for _, s := range plan.Skipped {
		resp.Skipped = append(resp.Skipped, api.SkippedRow{Row: s.Row, Description: s.Description, Reason: s.Reason})
	}

	if r.URL.Query().Get("dry_run") != "true" && len(plan.Entries) > 0 {
		sheet, err = h.expenseSvc.AddEntries(r.Context(), actor, id, plan.Entries)
		if err != nil {
			httputil.Error(w, r, err)
			return
		}

		resp.Imported = len(plan.Entries)
	}

	out := api.SheetFrom(sheet)
	resp.Sheet = &out

	httputil.JSON(w, http.StatusOK, resp)
}
