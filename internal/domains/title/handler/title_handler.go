package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"netflix-catalog-backend/internal/domains/title"
	"netflix-catalog-backend/internal/shared/response"
	"netflix-catalog-backend/pkg/logger"
)

// TitleHandler exposes the catalog over HTTP. Thin layer: bind, validate,
// delegate to the service, map domain errors to statuses.
type TitleHandler struct {
	service title.Service
}

func NewTitleHandler(service title.Service) *TitleHandler {
	return &TitleHandler{service: service}
}

// List handles GET /netflix/titles/ with the enumerated filter predicates,
// free-text search, order_by and skip/limit pagination.
func (h *TitleHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	titles, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, titles, &response.Meta{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Count: len(titles),
	})
}

// Get handles GET /netflix/titles/:show_id.
func (h *TitleHandler) Get(c *gin.Context) {
	resp, err := h.service.GetByShowID(c.Request.Context(), c.Param("show_id"))
	if err != nil {
		if errors.Is(err, title.ErrTitleNotFound) {
			response.NotFound(c, "Netflix title not found")
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Create handles POST /netflix/titles/.
func (h *TitleHandler) Create(c *gin.Context) {
	var req title.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, title.ErrShowIDInUse) {
			response.BadRequest(c, "Show ID already in use")
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Put handles PUT /netflix/titles/:show_id. An unknown show_id is a 400
// here, not a 404; PUT does not create.
func (h *TitleHandler) Put(c *gin.Context) {
	var req title.ReplaceTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	resp, err := h.service.Replace(c.Request.Context(), c.Param("show_id"), req)
	if err != nil {
		if errors.Is(err, title.ErrTitleNotFound) {
			response.BadRequest(c, "Netflix title not found")
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Patch handles PATCH /netflix/titles/:show_id with partial-update
// semantics.
func (h *TitleHandler) Patch(c *gin.Context) {
	var req title.PatchTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, "invalid request body", err.Error())
		return
	}

	resp, err := h.service.Patch(c.Request.Context(), c.Param("show_id"), req)
	if err != nil {
		if errors.Is(err, title.ErrTitleNotFound) {
			response.BadRequest(c, "Netflix title not found")
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *TitleHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, title.ErrInvalidDateAdded),
		errors.Is(err, title.ErrInvalidOrderBy),
		errors.Is(err, title.ErrFieldNotNullable):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("title request failed", err)
		response.InternalServerError(c, "internal server error")
	}
}

// parseListFilter reads the fixed predicate set from the query string.
// list-valued filters (title_type__in, rating__in) are comma separated.
func parseListFilter(c *gin.Context) (title.Filter, error) {
	var f title.Filter

	if v := c.Query("title_type"); v != "" {
		f.TitleType = &v
	}
	if v := c.Query("title_type__in"); v != "" {
		f.TitleTypeIn = splitList(v)
	}
	if v := c.Query("rating"); v != "" {
		f.Rating = &v
	}
	if v := c.Query("rating__in"); v != "" {
		f.RatingIn = splitList(v)
	}

	var err error
	if f.ReleaseYear, err = intQuery(c, "release_year"); err != nil {
		return f, err
	}
	if f.Duration, err = intQuery(c, "duration"); err != nil {
		return f, err
	}
	if f.Seasons, err = intQuery(c, "seasons"); err != nil {
		return f, err
	}

	f.Search = c.Query("search")
	if v := c.Query("order_by"); v != "" {
		f.OrderBy = splitList(v)
	}

	f.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(title.DefaultListLimit)))
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = title.DefaultListLimit
	}
	if f.Limit > title.MaxListLimit {
		f.Limit = title.MaxListLimit
	}

	return f, nil
}

func intQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(name + " must be an integer")
	}
	return &value, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
