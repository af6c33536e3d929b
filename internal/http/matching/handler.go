package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/http/httputil"
	"github.com/MrJamesThe3rd/gastos/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	merchant := r.URL.Query().Get("merchant")
	if merchant == "" {
		httputil.Error(w, r, httputil.BadRequest("merchant query parameter is required"))
		return
	}

	category, err := h.svc.Suggest(r.Context(), merchant)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, api.CategorySuggestion{Merchant: merchant, Category: category})
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req api.LearnCategoryRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	if req.Merchant == "" || req.Category == "" {
		httputil.Error(w, r, httputil.BadRequest("merchant and category are required"))
		return
	}

	if err := h.svc.Learn(r.Context(), req.Merchant, req.Category); err != nil {
		httputil.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
