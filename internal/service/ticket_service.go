package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/events"
	"github.com/ticketflow/ticketflow/internal/repository"
)

// TicketService coordinates ticket workflows on top of the repository and
// announces changes to event subscribers.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListTickets returns every ticket in insertion order.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// CreateTicket validates and stores a ticket on behalf of actor.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Identity, fields domain.TicketFields) (*domain.Ticket, error) {
	ticket, err := s.tickets.Create(ctx, fields, actor.Email)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor.Email,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// UpdateTicket replaces the mutable fields of ticket id.
func (s *TicketService) UpdateTicket(ctx context.Context, actor domain.Identity, id string, fields domain.TicketFields) (*domain.Ticket, error) {
	before, err := s.tickets.GetByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrTicketNotFound) {
		return nil, err
	}
	// Update validates before reporting a missing id, so a bad form for a
	// vanished ticket still shows field errors.
	ticket, err := s.tickets.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	payload := events.TicketUpdatedPayload{NewStatus: ticket.Status, NewPriority: ticket.Priority}
	if before != nil {
		payload.OldStatus = before.Status
		payload.OldPriority = before.Priority
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    actor.Email,
		Payload:  payload,
	})
	return ticket, nil
}

// DeleteTicket removes ticket id. Deleting an unknown id succeeds silently.
func (s *TicketService) DeleteTicket(ctx context.Context, actor domain.Identity, id string) error {
	_, err := s.tickets.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTicketNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Actor:    actor.Email,
	})
	return nil
}

// Dashboard holds the figures shown after login.
type Dashboard struct {
	Stats  domain.TicketStats
	Recent []domain.Ticket
}

// Dashboard counts tickets per status and picks the most recently updated.
func (s *TicketService) Dashboard(ctx context.Context, recent int) (*Dashboard, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: ComputeStats(tickets), Recent: mostRecent(tickets, recent)}, nil
}

// ComputeStats counts tickets by status.
func ComputeStats(tickets []domain.Ticket) domain.TicketStats {
	stats := domain.TicketStats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
	}
	return stats
}

func mostRecent(tickets []domain.Ticket, n int) []domain.Ticket {
	sorted := append([]domain.Ticket(nil), tickets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
