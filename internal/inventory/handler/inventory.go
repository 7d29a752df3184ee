package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
	"github.com/gemflow/gemflow-backend/internal/inventory/service"
	"github.com/gemflow/gemflow-backend/pkg/errors"
	"github.com/gemflow/gemflow-backend/pkg/httputil"
	"github.com/gemflow/gemflow-backend/pkg/logger"
)

const maxSearchLength = 100

// InventoryHandler handles aggregated inventory endpoints
type InventoryHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(svc *service.InventoryService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: svc,
		logger:  log,
	}
}

// Hierarchy returns the filtered, aggregated three-level stock hierarchy
func (h *InventoryHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	params, err := parseHierarchyQuery(r.URL.Query())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.GetHierarchy(r.Context(), params)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// parseHierarchyQuery validates all query parameters before any store
// access. Every invalid parameter is reported, not just the first.
func parseHierarchyQuery(q url.Values) (service.HierarchyParams, error) {
	details := map[string]string{}

	params := service.HierarchyParams{
		Page:      1,
		Limit:     20,
		SortBy:    service.SortByTotalQuantity,
		SortOrder: service.SortDesc,
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			details["page"] = "must be a positive integer"
		} else {
			params.Page = page
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			details["limit"] = "must be an integer between 1 and 100"
		} else {
			params.Limit = limit
		}
	}

	if search := strings.TrimSpace(q.Get("search")); search != "" {
		if len(search) > maxSearchLength {
			details["search"] = "must be at most 100 characters"
		} else {
			params.Criteria.Search = search
		}
	}

	if values, present := multiValue(q, "categories"); present {
		categories := make([]domain.Category, 0, len(values))
		for _, v := range values {
			c := domain.Category(v)
			if !c.Valid() {
				details["categories"] = "unknown category: " + v
				continue
			}
			categories = append(categories, c)
		}
		// Presence with no usable values still means "match nothing".
		params.Criteria.Categories = categories
	}

	if values, present := multiValue(q, "quality"); present {
		qualities := make([]string, 0, len(values))
		for _, v := range values {
			if !domain.ValidQualityFilter(v) {
				details["quality"] = "unknown quality grade: " + v
				continue
			}
			qualities = append(qualities, v)
		}
		params.Criteria.Qualities = qualities
	}

	params.Criteria.DiameterMin = parseFloatParam(q, "diameter_min", details)
	params.Criteria.DiameterMax = parseFloatParam(q, "diameter_max", details)
	params.Criteria.SpecificationMin = parseFloatParam(q, "specification_min", details)
	params.Criteria.SpecificationMax = parseFloatParam(q, "specification_max", details)

	if min, max := params.Criteria.DiameterMin, params.Criteria.DiameterMax; min != nil && max != nil && *min > *max {
		details["diameter_min"] = "must not exceed diameter_max"
	}
	if min, max := params.Criteria.SpecificationMin, params.Criteria.SpecificationMax; min != nil && max != nil && *min > *max {
		details["specification_min"] = "must not exceed specification_max"
	}

	if raw := q.Get("low_stock_only"); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			details["low_stock_only"] = "must be a boolean"
		} else {
			params.Criteria.LowStockOnly = only
		}
	}

	if raw := q.Get("sort_by"); raw != "" {
		switch raw {
		case service.SortByTotalQuantity, service.SortByCategory:
			params.SortBy = raw
		default:
			details["sort_by"] = "must be total_quantity or category"
		}
	}

	if raw := q.Get("sort"); raw != "" {
		switch raw {
		case service.SortAsc, service.SortDesc:
			params.SortOrder = raw
		default:
			details["sort"] = "must be asc or desc"
		}
	}

	if len(details) > 0 {
		return params, errors.Validation(details)
	}
	return params, nil
}

// multiValue collects repeated query values under both the bare key and
// the bracketed form clients send for arrays. Presence is reported even
// when every value is blank, so an explicitly empty set stays distinct
// from an absent parameter.
func multiValue(q url.Values, key string) ([]string, bool) {
	_, barePresent := q[key]
	_, bracketPresent := q[key+"[]"]
	if !barePresent && !bracketPresent {
		return nil, false
	}

	raw := append(append([]string{}, q[key]...), q[key+"[]"]...)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values, true
}

func parseFloatParam(q url.Values, key string, details map[string]string) *float64 {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		details[key] = "must be a number"
		return nil
	}
	return &f
}
