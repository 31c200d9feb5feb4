package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ticketflow/ticketflow/internal/domain"
)

func validTicket() domain.TicketFields {
	return domain.TicketFields{
		Title:       "Fix login bug now",
		Description: "Users cannot log in today",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityHigh,
	}
}

func TestValidateTicket_Valid(t *testing.T) {
	assert.True(t, ValidateTicket(validTicket()).OK())
}

func TestValidateTicket_ShortTitle(t *testing.T) {
	f := validTicket()
	f.Title = "Hi"

	errs := ValidateTicket(f)

	assert.Len(t, errs, 1)
	assert.Equal(t, "Title must be at least 3 characters", errs[FieldTitle])
}

func TestValidateTicket_TitleRules(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"empty", "", "Title is required"},
		{"blank", "   \t ", "Title is required"},
		{"two words", "Login broken", "Title must contain at least 3 words"},
		{"too long", strings.Repeat("word ", 40) + "x", "Title must not exceed 200 characters"},
		{"exactly max", strings.Repeat("ab ", 66) + "ab", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validTicket()
			f.Title = tc.title
			assert.Equal(t, tc.want, ValidateTicket(f)[FieldTitle])
		})
	}
}

func TestValidateTicket_DescriptionLimit(t *testing.T) {
	f := validTicket()
	f.Description = strings.Repeat("a ", 500) + "b"

	assert.Equal(t, "Description must not exceed 1000 characters", ValidateTicket(f)[FieldDescription])
}

func TestValidateTicket_CountsRunesNotBytes(t *testing.T) {
	f := validTicket()
	// 3 words of multi-byte runes, 199 runes total.
	f.Title = strings.Repeat("é", 65) + " " + strings.Repeat("é", 66) + " " + strings.Repeat("é", 66)

	assert.Empty(t, ValidateTicket(f)[FieldTitle])
}

func TestValidateTicket_Enums(t *testing.T) {
	f := validTicket()
	f.Status = "pending"
	f.Priority = ""

	errs := ValidateTicket(f)

	assert.Equal(t, "Status must be open, in_progress, or closed", errs[FieldStatus])
	assert.Equal(t, "Priority is required", errs[FieldPriority])

	f.Status = ""
	f.Priority = "urgent"
	errs = ValidateTicket(f)
	assert.Equal(t, "Status is required", errs[FieldStatus])
	assert.Equal(t, "Priority must be low, medium, or high", errs[FieldPriority])
}

func TestValidateTicket_ReportsEveryField(t *testing.T) {
	errs := ValidateTicket(domain.TicketFields{})

	assert.Len(t, errs, 4)
	for _, field := range []string{FieldTitle, FieldDescription, FieldStatus, FieldPriority} {
		assert.Contains(t, errs, field)
	}
}

func validRegistration() domain.Registration {
	return domain.Registration{
		Name:            "Jane Doe",
		Email:           "Jane@Example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	assert.True(t, ValidateRegistration(validRegistration(), nil).OK())
}

func TestValidateRegistration_Rules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Registration)
		field  string
		want   string
	}{
		{"name missing", func(r *domain.Registration) { r.Name = "" }, FieldName, "Name is required"},
		{"name short", func(r *domain.Registration) { r.Name = "Jo" }, FieldName, "Name must be at least 3 characters"},
		{"name long", func(r *domain.Registration) { r.Name = strings.Repeat("n", 51) }, FieldName, "Name must not exceed 50 characters"},
		{"email missing", func(r *domain.Registration) { r.Email = " " }, FieldEmail, "Email is required"},
		{"email shape", func(r *domain.Registration) { r.Email = "not-an-email" }, FieldEmail, "Please enter a valid email address"},
		{"password missing", func(r *domain.Registration) { r.Password = ""; r.PasswordConfirm = "" }, FieldPassword, "Password is required"},
		{"password short", func(r *domain.Registration) { r.Password = "abc"; r.PasswordConfirm = "abc" }, FieldPassword, "Password must be at least 6 characters"},
		{"password long", func(r *domain.Registration) {
			r.Password = strings.Repeat("p", 101)
			r.PasswordConfirm = r.Password
		}, FieldPassword, "Password must not exceed 100 characters"},
		{"confirmation missing", func(r *domain.Registration) { r.PasswordConfirm = "" }, FieldPasswordConfirm, "Please confirm your password"},
		{"confirmation mismatch", func(r *domain.Registration) { r.PasswordConfirm = "secret2" }, FieldPasswordConfirm, "Passwords do not match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRegistration()
			tc.mutate(&r)
			assert.Equal(t, tc.want, ValidateRegistration(r, nil)[tc.field])
		})
	}
}

func TestValidateRegistration_EmailTakenSeesNormalizedEmail(t *testing.T) {
	var seen string
	errs := ValidateRegistration(validRegistration(), func(email string) bool {
		seen = email
		return true
	})

	assert.Equal(t, "jane@example.com", seen)
	assert.Equal(t, "Email is already registered", errs[FieldEmail])
}

func TestValidateRegistration_EmailTakenSkippedForBadShape(t *testing.T) {
	r := validRegistration()
	r.Email = "bogus"
	called := false

	ValidateRegistration(r, func(string) bool { called = true; return true })

	assert.False(t, called)
}

func TestValidateLogin(t *testing.T) {
	errs := ValidateLogin("", "")
	assert.Equal(t, "Email is required", errs[FieldEmail])
	assert.Equal(t, "Password is required", errs[FieldPassword])

	assert.True(t, ValidateLogin("a@b.io", "x").OK())
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount(" one\ttwo\nthree "))
}
