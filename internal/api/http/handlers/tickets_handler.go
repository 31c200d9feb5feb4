package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ticketflow/ticketflow/internal/api/dto"
	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/service"
	apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"
)

const ticketsPath = "/tickets"

// TicketsHandler serves the ticket list and the create, edit and delete
// flows.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	return renderPage(c, fiber.StatusOK, "tickets/index", "Tickets", fiber.Map{"tickets": tickets})
}

// ShowCreate GET /tickets/create.
func (h *TicketsHandler) ShowCreate(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, "tickets/create", "New ticket", dto.NewTicketForm(), nil)
}

// Create POST /tickets/create.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var form dto.TicketForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form submission", nil)
	}
	actor, _ := auth.IdentityFromContext(c)

	_, err := h.service.CreateTicket(c.UserContext(), actor, form.Fields())
	if fieldErrs, ok := apperrors.FieldErrors(err); ok {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, "tickets/create", "New ticket", form, fieldErrs)
	}
	if err != nil {
		return err
	}
	return redirectWithFlash(c, ticketsPath, "Ticket created successfully")
}

// ShowEdit GET /tickets/:id/edit.
func (h *TicketsHandler) ShowEdit(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.renderForm(c, fiber.StatusOK, "tickets/edit", "Edit ticket", dto.TicketFormFrom(ticket), nil)
}

// Update POST /tickets/update. The ticket id travels in the form body.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var form dto.TicketForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form submission", nil)
	}
	form.ID = strings.TrimSpace(form.ID)
	actor, _ := auth.IdentityFromContext(c)

	_, err := h.service.UpdateTicket(c.UserContext(), actor, form.ID, form.Fields())
	if fieldErrs, ok := apperrors.FieldErrors(err); ok {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, "tickets/edit", "Edit ticket", form, fieldErrs)
	}
	if err != nil {
		return err
	}
	return redirectWithFlash(c, ticketsPath, "Ticket updated successfully")
}

// Delete GET|POST /tickets/delete/:id. Deleting a missing ticket still
// redirects back to the list.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	actor, _ := auth.IdentityFromContext(c)
	if err := h.service.DeleteTicket(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return redirectWithFlash(c, ticketsPath, "Ticket deleted successfully")
}

func (h *TicketsHandler) renderForm(c *fiber.Ctx, status int, view, title string, form dto.TicketForm, errs map[string]string) error {
	return renderPage(c, status, view, title, fiber.Map{
		"old":        form,
		"errors":     nonNil(errs),
		"statuses":   domain.TicketStatuses,
		"priorities": domain.TicketPriorities,
	})
}
