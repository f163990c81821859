package units

import (
	"dispatch-core/core/errs"
	"dispatch-core/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for units.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the unit routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/units")
	group.Get("/roster", h.HandleGetRoster)
	group.Post("/merge", h.HandleMergeOfficers)
	group.Post("/combined/:id/unmerge", h.HandleUnmergeOfficers)
	group.Post("/ems/merge", h.HandleMergeDeputies)
	group.Post("/ems/combined/:id/unmerge", h.HandleUnmergeDeputies)
	group.Put("/officers/:id/status", h.HandleSetOfficerStatus)
}

type mergeRequest struct {
	MemberIDs []uint `json:"memberIds"`
	EntryID   uint   `json:"entryId"`
}

type statusRequest struct {
	StatusID uint `json:"statusId"`
}

// HandleGetRoster returns the full active-unit roster snapshot.
// @Summary Get Roster
// @Description Get the complete active unit roster.
// @Tags units
// @Produce json
// @Success 200 {object} units.RosterSnapshot "Roster"
// @Router /units/roster [get]
func (h *Handler) HandleGetRoster(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	snap, err := h.service.LoadSnapshot(c.Context())
	if err != nil {
		l.Error("Roster load failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(snap)
}

// HandleMergeOfficers merges officers into a combined unit.
// @Summary Merge Officers
// @Description Merge two or more officers into a combined unit seeded from the entry unit.
// @Tags units
// @Accept json
// @Produce json
// @Param request body units.mergeRequest true "Merge Request"
// @Success 201 {object} models.CombinedUnit "Combined Unit"
// @Router /units/merge [post]
func (h *Handler) HandleMergeOfficers(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req mergeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	unit, err := h.service.MergeOfficers(c.Context(), req.MemberIDs, req.EntryID)
	if err != nil {
		l.Error("Merge failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(unit)
}

// HandleUnmergeOfficers dissolves a combined unit.
// @Summary Unmerge Combined Unit
// @Tags units
// @Produce json
// @Param id path int true "Combined Unit ID"
// @Success 200 {object} map[string]bool "Success"
// @Router /units/combined/{id}/unmerge [post]
func (h *Handler) HandleUnmergeOfficers(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	if err := h.service.UnmergeOfficers(c.Context(), uint(id)); err != nil {
		l.Error("Unmerge failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleMergeDeputies merges EMS/FD deputies into a combined EMS unit.
// @Summary Merge Deputies
// @Tags units
// @Accept json
// @Produce json
// @Param request body units.mergeRequest true "Merge Request"
// @Success 201 {object} models.CombinedEmsUnit "Combined EMS Unit"
// @Router /units/ems/merge [post]
func (h *Handler) HandleMergeDeputies(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req mergeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	unit, err := h.service.MergeDeputies(c.Context(), req.MemberIDs, req.EntryID)
	if err != nil {
		l.Error("Merge failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(unit)
}

// HandleUnmergeDeputies dissolves a combined EMS unit.
// @Summary Unmerge Combined EMS Unit
// @Tags units
// @Produce json
// @Param id path int true "Combined EMS Unit ID"
// @Success 200 {object} map[string]bool "Success"
// @Router /units/ems/combined/{id}/unmerge [post]
func (h *Handler) HandleUnmergeDeputies(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	if err := h.service.UnmergeDeputies(c.Context(), uint(id)); err != nil {
		l.Error("Unmerge failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleSetOfficerStatus applies a status to a standalone officer.
// @Summary Set Officer Status
// @Tags units
// @Accept json
// @Produce json
// @Param id path int true "Officer ID"
// @Param request body units.statusRequest true "Status Request"
// @Success 200 {object} models.Officer "Officer"
// @Router /units/officers/{id}/status [put]
func (h *Handler) HandleSetOfficerStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	officer, err := h.service.SetOfficerStatus(c.Context(), uint(id), req.StatusID)
	if err != nil {
		l.Error("Status change failed", zap.Error(err))
		return errs.JSON(c, err)
	}
	return c.JSON(officer)
}
