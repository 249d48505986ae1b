package servicelog

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinlog/clinlog/internal/platform/auth"
	"github.com/clinlog/clinlog/internal/platform/respond"
	"github.com/clinlog/clinlog/pkg/pagination"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	logs := api.Group("/service-logs", auth.RequireRole("clinician"))
	logs.POST("", h.Submit)
	logs.GET("", h.List)
	logs.GET("/:id", h.Get)
}

// Submit handles POST /api/v1/service-logs. Validation failures return 400
// with the full field-error list; storage failures return 500 with the
// cause logged, never surfaced.
func (h *Handler) Submit(c echo.Context) error {
	var req SubmissionRequest
	if err := c.Bind(&req); err != nil {
		return respond.ValidationError(c, "invalid request body", nil)
	}

	userID := auth.UserIDFromContext(c.Request().Context())
	result, err := h.svc.Submit(c.Request().Context(), userID, &req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return respond.ValidationError(c, ve.Message, ve.Fields)
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("service log submission failed")
		return respond.InternalError(c)
	}

	return respond.OK(c, http.StatusCreated, result)
}

// Get handles GET /api/v1/service-logs/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.ValidationError(c, "invalid service log id", nil)
	}

	userID := auth.UserIDFromContext(c.Request().Context())
	result, err := h.svc.Get(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrLogNotFound) {
			return respond.NotFound(c, "service log not found")
		}
		h.logger.Error().Err(err).Str("service_log_id", id.String()).Msg("failed to load service log")
		return respond.InternalError(c)
	}

	return respond.OK(c, http.StatusOK, result)
}

// List handles GET /api/v1/service-logs. Only the authenticated user's own
// logs are returned.
func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	userID := auth.UserIDFromContext(c.Request().Context())

	logs, total, err := h.svc.List(c.Request().Context(), userID, params.Limit, params.Offset)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list service logs")
		return respond.InternalError(c)
	}

	return respond.OK(c, http.StatusOK,
		pagination.NewResponse(logs, total, params.Limit, params.Offset))
}
