package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gemflow/gemflow-backend/internal/inventory/repository"
	"github.com/gemflow/gemflow-backend/pkg/actor"
	"github.com/gemflow/gemflow-backend/pkg/errors"
	"github.com/gemflow/gemflow-backend/pkg/httputil"
	"github.com/gemflow/gemflow-backend/pkg/logger"
	"github.com/gemflow/gemflow-backend/pkg/permissions"
)

// AlertHandler handles low-stock alert endpoints
type AlertHandler struct {
	repo   *repository.AlertRepository
	logger *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(repo *repository.AlertRepository, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		repo:   repo,
		logger: log,
	}
}

// List lists active (unresolved) alerts, newest first
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.repo.ListActive(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alerts)
}

// Acknowledge marks an alert as seen. Acknowledged alerts stay active
// until the underlying batch recovers.
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if !permissions.RoleCan(actor.Role(r.Context()), permissions.PermAlertsManage) {
		httputil.Error(w, errors.Forbidden("insufficient permissions to manage alerts"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := httputil.Validate(idPathParam{ID: id}); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.repo.Acknowledge(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
