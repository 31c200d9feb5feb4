package dto

import (
	"strings"

	"github.com/ticketflow/ticketflow/internal/domain"
)

// TicketForm is the create/edit form payload. ID is only sent by the edit
// form.
type TicketForm struct {
	ID          string `form:"id"`
	Title       string `form:"title"`
	Description string `form:"description"`
	Status      string `form:"status"`
	Priority    string `form:"priority"`
}

// NewTicketForm is the blank create form, preselecting the default status
// and priority.
func NewTicketForm() TicketForm {
	return TicketForm{
		Status:   string(domain.TicketStatusOpen),
		Priority: string(domain.TicketPriorityMedium),
	}
}

// TicketFormFrom fills the edit form from a stored ticket.
func TicketFormFrom(t *domain.Ticket) TicketForm {
	return TicketForm{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
	}
}

// Fields converts the form to domain input.
func (f TicketForm) Fields() domain.TicketFields {
	return domain.TicketFields{
		Title:       f.Title,
		Description: f.Description,
		Status:      domain.TicketStatus(strings.TrimSpace(f.Status)),
		Priority:    domain.TicketPriority(strings.TrimSpace(f.Priority)),
	}
}
