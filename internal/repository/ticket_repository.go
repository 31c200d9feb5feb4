package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/persistence"
	"github.com/ticketflow/ticketflow/internal/validation"
	apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"
)

// TicketRepository encapsulates ticket persistence. Writes validate their
// input before touching the store.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	Create(ctx context.Context, fields domain.TicketFields, createdBy string) (*domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, id string, fields domain.TicketFields) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	mu    sync.Mutex
	store *persistence.JSONStore[[]domain.Ticket]
	now   func() time.Time
	newID func() string
}

// TicketOption customizes the repository.
type TicketOption func(*ticketRepository)

// WithTicketClock overrides the timestamp source.
func WithTicketClock(now func() time.Time) TicketOption {
	return func(r *ticketRepository) { r.now = now }
}

// WithTicketIDs overrides the id generator.
func WithTicketIDs(newID func() string) TicketOption {
	return func(r *ticketRepository) { r.newID = newID }
}

// NewTicketRepository returns a repository over the tickets file.
func NewTicketRepository(store *persistence.JSONStore[[]domain.Ticket], opts ...TicketOption) TicketRepository {
	r := &ticketRepository{store: store, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Load()
}

func (r *ticketRepository) Create(ctx context.Context, fields domain.TicketFields, createdBy string) (*domain.Ticket, error) {
	fields = normalizeTicketFields(fields)
	if errs := validation.ValidateTicket(fields); !errs.OK() {
		return nil, apperrors.NewValidationError("ticket is invalid", errs)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tickets, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	id := r.newID()
	for indexOf(tickets, id) >= 0 {
		id = r.newID()
	}
	now := r.now().UTC()
	ticket := domain.Ticket{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Priority:    fields.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   strings.TrimSpace(createdBy),
	}
	if err := r.store.Save(append(tickets, ticket)); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	tickets, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(tickets, id)
	if i < 0 {
		return nil, ErrTicketNotFound
	}
	ticket := tickets[i]
	return &ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, id string, fields domain.TicketFields) (*domain.Ticket, error) {
	fields = normalizeTicketFields(fields)
	if errs := validation.ValidateTicket(fields); !errs.OK() {
		return nil, apperrors.NewValidationError("ticket is invalid", errs)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tickets, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	i := indexOf(tickets, id)
	if i < 0 {
		return nil, ErrTicketNotFound
	}

	ticket := &tickets[i]
	ticket.Title = fields.Title
	ticket.Description = fields.Description
	ticket.Status = fields.Status
	ticket.Priority = fields.Priority
	now := r.now().UTC()
	if !now.After(ticket.UpdatedAt) {
		// Coarse clocks can repeat a reading; edits must still move forward.
		now = ticket.UpdatedAt.Add(time.Nanosecond)
	}
	ticket.UpdatedAt = now

	if err := r.store.Save(tickets); err != nil {
		return nil, err
	}
	updated := *ticket
	return &updated, nil
}

// Delete removes the ticket. An unknown id is not an error and leaves the
// file untouched.
func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tickets, err := r.store.Load()
	if err != nil {
		return err
	}
	i := indexOf(tickets, id)
	if i < 0 {
		return nil
	}
	remaining := make([]domain.Ticket, 0, len(tickets)-1)
	remaining = append(remaining, tickets[:i]...)
	remaining = append(remaining, tickets[i+1:]...)
	return r.store.Save(remaining)
}

func indexOf(tickets []domain.Ticket, id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func normalizeTicketFields(f domain.TicketFields) domain.TicketFields {
	return domain.TicketFields{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Status:      domain.TicketStatus(strings.TrimSpace(string(f.Status))),
		Priority:    domain.TicketPriority(strings.TrimSpace(string(f.Priority))),
	}
}
