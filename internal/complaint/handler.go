package complaint

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes complaint intake and session-scoped read endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create registers a complaint for the authenticated citizen.
func (h *Handler) Create(c *fiber.Ctx) error {
	citizenID, ok := c.Locals("citizen_id").(int64)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "missing session")
	}

	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	id, err := h.svc.Create(c.UserContext(), citizenID, in)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Complaint registered successfully",
		"id":      id,
	})
}

// CreatePublic registers a complaint from the public entry path, with or
// without an owning citizen.
func (h *Handler) CreatePublic(c *fiber.Ctx) error {
	var in PublicCreateInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	id, err := h.svc.CreatePublic(c.UserContext(), in)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"id":      id,
		"message": "registered a complaint successfully",
	})
}

// ListOwn returns the authenticated citizen's complaints.
func (h *Handler) ListOwn(c *fiber.Ctx) error {
	citizenID, ok := c.Locals("citizen_id").(int64)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "missing session")
	}

	complaints, err := h.svc.ListByCitizen(c.UserContext(), citizenID)
	if err != nil {
		return mapError(err)
	}
	if complaints == nil {
		complaints = []Complaint{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"complaints": complaints})
}

// ListPublic returns every registered complaint.
func (h *Handler) ListPublic(c *fiber.Ctx) error {
	complaints, err := h.svc.ListAll(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	if complaints == nil {
		complaints = []Complaint{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "complaints": complaints})
}

// Stats returns the authenticated citizen's complaint counts.
func (h *Handler) Stats(c *fiber.Ctx) error {
	citizenID, ok := c.Locals("citizen_id").(int64)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "missing session")
	}

	stats, err := h.svc.Stats(c.UserContext(), citizenID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"stats": stats})
}

// ListCategories returns the selectable category catalog.
func (h *Handler) ListCategories(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(Categories())
}

func mapError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return fiber.NewError(http.StatusBadRequest, verr.Error())
	}
	return fiber.NewError(http.StatusInternalServerError, "internal error")
}
