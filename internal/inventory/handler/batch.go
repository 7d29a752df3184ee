package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gemflow/gemflow-backend/internal/inventory/service"
	"github.com/gemflow/gemflow-backend/pkg/httputil"
	"github.com/gemflow/gemflow-backend/pkg/logger"
)

type idPathParam struct {
	ID string `validate:"required,uuid"`
}

// BatchHandler handles single-batch stock endpoints
type BatchHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(svc *service.InventoryService, log *logger.Logger) *BatchHandler {
	return &BatchHandler{
		service: svc,
		logger:  log,
	}
}

// Get returns the derived stock for one batch
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := httputil.Validate(idPathParam{ID: id}); err != nil {
		httputil.Error(w, err)
		return
	}

	view, err := h.service.GetBatchStock(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, view)
}
