package calls

import (
	"dispatch-core/core/errs"
	"dispatch-core/core/logger"
	"dispatch-core/feature/calls/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for calls.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the call routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/calls")
	group.Get("/", h.HandleListOpen)
	group.Post("/", h.HandleCreate)
	group.Put("/:id/assign", h.HandleAssignOfficers)
	group.Post("/:id/end", h.HandleEnd)
}

type createRequest struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

type assignRequest struct {
	OfficerIDs []uint `json:"officerIds"`
}

// HandleListOpen returns all calls that have not ended.
// @Summary List Open Calls
// @Tags calls
// @Produce json
// @Success 200 {array} models.Call "Open Calls"
// @Router /calls [get]
func (h *Handler) HandleListOpen(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	calls, err := h.service.Open(c.Context())
	if err != nil {
		l.Error("Call list failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(calls)
}

// HandleCreate opens a new call.
// @Summary Create Call
// @Tags calls
// @Accept json
// @Produce json
// @Param request body calls.createRequest true "Call"
// @Success 201 {object} models.Call "Call"
// @Router /calls [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	call := models.Call{Type: req.Type, Title: req.Title, Location: req.Location}
	if err := h.service.Create(c.Context(), &call); err != nil {
		l.Error("Call create failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(call)
}

// HandleAssignOfficers reconciles the call's assigned officers.
// @Summary Assign Officers
// @Description Replace the call's assigned officer set; unchanged assignments are untouched.
// @Tags calls
// @Accept json
// @Produce json
// @Param id path int true "Call ID"
// @Param request body calls.assignRequest true "Assignment"
// @Success 200 {object} models.Call "Call"
// @Router /calls/{id}/assign [put]
func (h *Handler) HandleAssignOfficers(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	call, err := h.service.AssignOfficers(c.Context(), uint(id), req.OfficerIDs)
	if err != nil {
		l.Error("Assignment failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(call)
}

// HandleEnd closes a call.
// @Summary End Call
// @Tags calls
// @Produce json
// @Param id path int true "Call ID"
// @Success 200 {object} models.Call "Call"
// @Router /calls/{id}/end [post]
func (h *Handler) HandleEnd(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	call, err := h.service.End(c.Context(), uint(id))
	if err != nil {
		l.Error("Call end failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(call)
}
