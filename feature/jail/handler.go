package jail

import (
	"dispatch-core/core/errs"
	"dispatch-core/core/logger"
	"dispatch-core/feature/jail/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the jail.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the jail routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/jail")
	group.Get("/", h.HandleInCustody)
	group.Post("/", h.HandleBook)
	group.Get("/due", h.HandleDueForRelease)
	group.Post("/:id/release", h.HandleRelease)
	group.Post("/release-due", h.HandleReleaseDue)
}

type bookRequest struct {
	CitizenName string `json:"citizenName"`
	OfficerID   *uint  `json:"officerId"`
	Charges     string `json:"charges"`
	Minutes     int    `json:"minutes"`
}

// HandleInCustody returns all unreleased arrests.
// @Summary List In Custody
// @Tags jail
// @Produce json
// @Success 200 {array} models.Arrest "Arrests"
// @Router /jail [get]
func (h *Handler) HandleInCustody(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	arrests, err := h.service.InCustody(c.Context())
	if err != nil {
		l.Error("Arrest list failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(arrests)
}

// HandleBook records a new arrest.
// @Summary Book Arrest
// @Tags jail
// @Accept json
// @Produce json
// @Param request body jail.bookRequest true "Arrest"
// @Success 201 {object} models.Arrest "Arrest"
// @Router /jail [post]
func (h *Handler) HandleBook(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	arrest := models.Arrest{
		CitizenName: req.CitizenName,
		OfficerID:   req.OfficerID,
		Charges:     req.Charges,
		Minutes:     req.Minutes,
	}
	if err := h.service.Book(c.Context(), &arrest); err != nil {
		l.Error("Booking failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(arrest)
}

// HandleDueForRelease returns arrests whose sentence is served.
// @Summary List Due For Release
// @Tags jail
// @Produce json
// @Success 200 {array} models.Arrest "Arrests"
// @Router /jail/due [get]
func (h *Handler) HandleDueForRelease(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	arrests, err := h.service.DueForRelease(c.Context())
	if err != nil {
		l.Error("Due list failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(arrests)
}

// HandleRelease releases a single arrest.
// @Summary Release Arrest
// @Tags jail
// @Produce json
// @Param id path int true "Arrest ID"
// @Success 200 {object} models.Arrest "Arrest"
// @Router /jail/{id}/release [post]
func (h *Handler) HandleRelease(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	arrest, err := h.service.Release(c.Context(), uint(id))
	if err != nil {
		l.Error("Release failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(arrest)
}

// HandleReleaseDue releases every arrest whose sentence is served.
// @Summary Release Due Arrests
// @Tags jail
// @Produce json
// @Success 200 {object} map[string]int "Released count"
// @Router /jail/release-due [post]
func (h *Handler) HandleReleaseDue(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	released, err := h.service.ReleaseDue(c.Context())
	if err != nil {
		l.Error("Release sweep failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(fiber.Map{"released": released})
}
