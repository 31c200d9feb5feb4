package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/persistence"
	"github.com/ticketflow/ticketflow/internal/validation"
	apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

type userRepository struct {
	mu         sync.Mutex
	store      *persistence.JSONStore[map[string]domain.User]
	bcryptCost int
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewUserRepository returns a repository over the users file, keyed by
// lower-cased email.
func NewUserRepository(store *persistence.JSONStore[map[string]domain.User], bcryptCost int) UserRepository {
	return &userRepository{store: store, bcryptCost: bcryptCost, now: time.Now}
}

func (r *userRepository) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	errs := validation.ValidateRegistration(reg, func(email string) bool {
		_, taken := users[email]
		return taken
	})
	if !errs.OK() {
		return nil, apperrors.NewValidationError("registration is invalid", errs)
	}

	hash, err := auth.HashPassword(reg.Password, r.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := domain.User{
		Name:         strings.TrimSpace(reg.Name),
		Email:        validation.NormalizeEmail(reg.Email),
		PasswordHash: hash,
		CreatedAt:    r.now().UTC(),
	}
	users[user.Email] = user
	if err := r.store.Save(users); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	users, err := r.store.Load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	user, ok := users[validation.NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Authenticate returns apperrors.ErrInvalidCredentials both for unknown
// emails and wrong passwords. Unknown emails still pay for a hash compare.
func (r *userRepository) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		_ = auth.ComparePassword(r.dummy(), password)
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (r *userRepository) dummy() string {
	r.dummyOnce.Do(func() {
		r.dummyHash, _ = auth.HashPassword("ticketflow-no-such-user", r.bcryptCost)
	})
	return r.dummyHash
}
