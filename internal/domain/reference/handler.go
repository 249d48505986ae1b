package reference

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinlog/clinlog/internal/platform/auth"
	"github.com/clinlog/clinlog/internal/platform/respond"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("clinician", "registrar"))
	readGroup.GET("/options", h.GetOptions)
	readGroup.GET("/clients", h.ListClients)
	readGroup.GET("/activities", h.ListActivities)
	readGroup.GET("/outcomes", h.ListOutcomes)
}

// GetOptions returns the active Client/Activity/Outcome lists in one payload,
// used by form-driven clients to build the intake form.
func (h *Handler) GetOptions(c echo.Context) error {
	opts, err := h.svc.Options(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load options")
		return respond.InternalError(c)
	}
	return respond.OK(c, http.StatusOK, opts)
}

func (h *Handler) ListClients(c echo.Context) error {
	clients, err := h.svc.repo.ListActiveClients(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list clients")
		return respond.InternalError(c)
	}
	return respond.OK(c, http.StatusOK, clients)
}

func (h *Handler) ListActivities(c echo.Context) error {
	activities, err := h.svc.repo.ListActiveActivities(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list activities")
		return respond.InternalError(c)
	}
	return respond.OK(c, http.StatusOK, activities)
}

func (h *Handler) ListOutcomes(c echo.Context) error {
	outcomes, err := h.svc.repo.ListActiveOutcomes(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list outcomes")
		return respond.InternalError(c)
	}
	return respond.OK(c, http.StatusOK, outcomes)
}
