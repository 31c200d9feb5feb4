package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/persistence"
	apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"
)

func newTicketRepo(t *testing.T, opts ...TicketOption) (TicketRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.json")
	return NewTicketRepository(persistence.NewSliceStore[domain.Ticket](path, nil), opts...), path
}

func loginBug() domain.TicketFields {
	return domain.TicketFields{
		Title:       "Fix login bug now",
		Description: "Users cannot log in today",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityHigh,
	}
}

func TestTicketCreate_Scenario(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTicketRepo(t)

	before, err := repo.List(ctx)
	require.NoError(t, err)

	ticket, err := repo.Create(ctx, loginBug(), "jane@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.False(t, ticket.CreatedAt.IsZero())
	assert.Equal(t, "Fix login bug now", ticket.Title)
	assert.Equal(t, "Users cannot log in today", ticket.Description)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	assert.Equal(t, "jane@example.com", ticket.CreatedBy)

	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)

	found, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket, found)
}

func TestTicketCreate_FreshIDs(t *testing.T) {
	ctx := context.Background()
	ids := []string{"dup", "dup", "next"}
	repo, _ := newTicketRepo(t, WithTicketIDs(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	first, err := repo.Create(ctx, loginBug(), "")
	require.NoError(t, err)
	second, err := repo.Create(ctx, loginBug(), "")
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "next", second.ID)
}

func TestTicketCreate_TrimsInput(t *testing.T) {
	fields := loginBug()
	fields.Title = "  Fix login bug now \n"
	fields.Status = " open "
	repo, _ := newTicketRepo(t)

	ticket, err := repo.Create(context.Background(), fields, "")

	require.NoError(t, err)
	assert.Equal(t, "Fix login bug now", ticket.Title)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

func TestTicketCreate_InvalidIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	repo, path := newTicketRepo(t)
	fields := loginBug()
	fields.Title = "Hi"

	_, err := repo.Create(ctx, fields, "")

	fieldErrs, ok := apperrors.FieldErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, fieldErrs["title"])
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "validation must run before the store is touched")
}

func TestTicketGetByID_NotFound(t *testing.T) {
	repo, _ := newTicketRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestTicketUpdate_ReflectsFieldsAndAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo, _ := newTicketRepo(t, WithTicketClock(func() time.Time { return frozen }))
	created, err := repo.Create(ctx, loginBug(), "")
	require.NoError(t, err)

	fields := domain.TicketFields{
		Title:       "Login bug fixed already",
		Description: "Deployed the patch to production",
		Status:      domain.TicketStatusClosed,
		Priority:    domain.TicketPriorityLow,
	}
	updated, err := repo.Update(ctx, created.ID, fields)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, fields.Title, found.Title)
	assert.Equal(t, fields.Description, found.Description)
	assert.Equal(t, fields.Status, found.Status)
	assert.Equal(t, fields.Priority, found.Priority)
	assert.Equal(t, created.CreatedAt, found.CreatedAt)
	assert.True(t, found.UpdatedAt.After(created.UpdatedAt), "updated_at must move forward even with a frozen clock")

	again, err := repo.Update(ctx, created.ID, fields)
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(found.UpdatedAt))
}

func TestTicketUpdate_NotFound(t *testing.T) {
	repo, _ := newTicketRepo(t)

	_, err := repo.Update(context.Background(), "missing", loginBug())

	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestTicketUpdate_ValidatesBeforeLookup(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTicketRepo(t)
	created, err := repo.Create(ctx, loginBug(), "")
	require.NoError(t, err)

	bad := loginBug()
	bad.Status = "reopened"
	_, err = repo.Update(ctx, created.ID, bad)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = repo.Update(ctx, "missing", bad)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestTicketDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTicketRepo(t)
	var ids []string
	for i := 0; i < 3; i++ {
		ticket, err := repo.Create(ctx, loginBug(), "")
		require.NoError(t, err)
		ids = append(ids, ticket.ID)
	}

	require.NoError(t, repo.Delete(ctx, ids[1]))

	_, err := repo.GetByID(ctx, ids[1])
	assert.ErrorIs(t, err, ErrTicketNotFound)
	remaining, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, ids[0], remaining[0].ID)
	assert.Equal(t, ids[2], remaining[1].ID)
}

func TestTicketDelete_UnknownIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTicketRepo(t)
	_, err := repo.Create(ctx, loginBug(), "")
	require.NoError(t, err)

	assert.NoError(t, repo.Delete(ctx, "missing"))
	assert.NoError(t, repo.Delete(ctx, ""))

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestTicketRepository_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tickets.json")
	first := NewTicketRepository(persistence.NewSliceStore[domain.Ticket](path, nil))
	created, err := first.Create(ctx, loginBug(), "")
	require.NoError(t, err)

	second := NewTicketRepository(persistence.NewSliceStore[domain.Ticket](path, nil))
	found, err := second.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestTicketRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo, _ := newTicketRepo(t)

	_, err := repo.Create(ctx, loginBug(), "")

	assert.ErrorIs(t, err, context.Canceled)
}
