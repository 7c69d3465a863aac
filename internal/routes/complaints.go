package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/civiceye/internal/complaint"
)

// RegisterPublicComplaintRoutes wires the unauthenticated complaint surface:
// anonymous intake, the full listing, and the category catalog.
func RegisterPublicComplaintRoutes(r fiber.Router, h *complaint.Handler) {
	r.Get("/categories", h.ListCategories)
	group := r.Group("/public/complaints")
	group.Post("/", h.CreatePublic)
	group.Get("/", h.ListPublic)
}

// RegisterComplaintRoutes wires the session-scoped complaint endpoints.
func RegisterComplaintRoutes(r fiber.Router, h *complaint.Handler) {
	group := r.Group("/complaints")
	group.Post("/", h.Create)
	group.Get("/", h.ListOwn)
	group.Get("/stats", h.Stats)
}
