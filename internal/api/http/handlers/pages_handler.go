package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticketflow/ticketflow/internal/service"
)

// PagesHandler serves the landing page and the dashboard.
type PagesHandler struct {
	tickets     *service.TicketService
	recentLimit int
}

// NewPagesHandler constructs handler.
func NewPagesHandler(ticketService *service.TicketService) *PagesHandler {
	return &PagesHandler{tickets: ticketService, recentLimit: 5}
}

// Landing GET /.
func (h *PagesHandler) Landing(c *fiber.Ctx) error {
	return renderPage(c, fiber.StatusOK, "landing", "Welcome", nil)
}

// Dashboard GET /dashboard.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.tickets.Dashboard(c.UserContext(), h.recentLimit)
	if err != nil {
		return err
	}
	return renderPage(c, fiber.StatusOK, "dashboard", "Dashboard", fiber.Map{
		"stats":  dash.Stats,
		"recent": dash.Recent,
	})
}

// NotFound renders the not-found page for any unmatched route.
func (h *PagesHandler) NotFound(c *fiber.Ctx) error {
	return renderPage(c, fiber.StatusNotFound, "errors/404", "Not found", fiber.Map{
		"message": "The page you requested does not exist.",
	})
}
