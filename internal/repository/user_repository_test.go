package repository

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/persistence"
	apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"
)

func newUserRepo(t *testing.T) UserRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return NewUserRepository(persistence.NewMapStore[domain.User](path, nil), bcrypt.MinCost)
}

func jane() domain.Registration {
	return domain.Registration{
		Name:            "Jane Doe",
		Email:           "  Jane@Example.COM ",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	}
}

func TestRegister(t *testing.T) {
	repo := newUserRepo(t)

	user, err := repo.Register(context.Background(), jane())

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "secret1"))
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegister_DuplicateCaseFoldedEmail(t *testing.T) {
	ctx := context.Background()
	repo := newUserRepo(t)
	first, err := repo.Register(ctx, jane())
	require.NoError(t, err)

	dup := jane()
	dup.Name = "Other Jane"
	dup.Email = "JANE@example.com"
	_, err = repo.Register(ctx, dup)

	fieldErrs, ok := apperrors.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Email is already registered", fieldErrs["email"])

	stored, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestRegister_InvalidReportsAllFields(t *testing.T) {
	_, err := newUserRepo(t).Register(context.Background(), domain.Registration{Email: "nope"})

	fieldErrs, ok := apperrors.FieldErrors(err)
	require.True(t, ok)
	assert.Len(t, fieldErrs, 4)
}

func TestGetByEmail_NotFound(t *testing.T) {
	_, err := newUserRepo(t).GetByEmail(context.Background(), "ghost@example.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := newUserRepo(t)
	_, err := repo.Register(ctx, jane())
	require.NoError(t, err)

	user, err := repo.Authenticate(ctx, "JANE@example.com ", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	repo := newUserRepo(t)
	_, err := repo.Register(ctx, jane())
	require.NoError(t, err)

	_, wrongPassword := repo.Authenticate(ctx, "jane@example.com", "wrong-password")
	_, unknownEmail := repo.Authenticate(ctx, "ghost@example.com", "secret1")

	require.Error(t, wrongPassword)
	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestRegisterAndAuthenticate_LongPasswords(t *testing.T) {
	cases := map[string]string{
		"ascii at max":     strings.Repeat("a", 100),
		"multibyte at max": strings.Repeat("é", 100),
	}
	for name, password := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newUserRepo(t)
			reg := jane()
			reg.Password = password
			reg.PasswordConfirm = password

			_, err := repo.Register(ctx, reg)
			require.NoError(t, err)

			user, err := repo.Authenticate(ctx, "jane@example.com", password)
			require.NoError(t, err)
			assert.Equal(t, "jane@example.com", user.Email)

			// Passwords sharing the first 72 bytes must still differ.
			_, err = repo.Authenticate(ctx, "jane@example.com", password[:len(password)-1]+"b")
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		})
	}
}
