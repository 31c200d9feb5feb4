// Package validation holds the field rules for ticket and account forms.
//
// Every function is pure: it inspects its input and returns the failures
// keyed by form field name. A field reports only its first failing rule, but
// all fields are checked so a form can show every problem at once.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/ticketflow/ticketflow/internal/domain"
)

// Field limits.
const (
	TicketTitleMax       = 200
	TicketDescriptionMax = 1000
	TicketTextMin        = 3
	TicketMinWords       = 3
	NameMin              = 3
	NameMax              = 50
	PasswordMin          = 6
	PasswordMax          = 100
)

// Form field names used as error keys.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldStatus          = "status"
	FieldPriority        = "priority"
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPasswordConfirm = "password_confirmation"
)

var validate = validator.New()

// Errors maps a field name to its message. Empty means valid.
type Errors map[string]string

// OK reports whether no field failed.
func (e Errors) OK() bool {
	return len(e) == 0
}

func (e Errors) add(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

// ValidateTicket checks a create or edit submission.
func ValidateTicket(f domain.TicketFields) Errors {
	errs := Errors{}
	errs.add(FieldTitle, checkText("Title", f.Title, TicketTitleMax))
	errs.add(FieldDescription, checkText("Description", f.Description, TicketDescriptionMax))
	errs.add(FieldStatus, checkStatus(f.Status))
	errs.add(FieldPriority, checkPriority(f.Priority))
	return errs
}

// ValidateRegistration checks a signup submission. emailTaken reports
// whether the normalized email already belongs to an account.
func ValidateRegistration(r domain.Registration, emailTaken func(email string) bool) Errors {
	errs := Errors{}

	name := strings.TrimSpace(r.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		errs.add(FieldName, "Name is required")
	case n < NameMin:
		errs.add(FieldName, fmt.Sprintf("Name must be at least %d characters", NameMin))
	case n > NameMax:
		errs.add(FieldName, fmt.Sprintf("Name must not exceed %d characters", NameMax))
	}

	email := NormalizeEmail(r.Email)
	switch {
	case email == "":
		errs.add(FieldEmail, "Email is required")
	case !IsEmail(email):
		errs.add(FieldEmail, "Please enter a valid email address")
	case emailTaken != nil && emailTaken(email):
		errs.add(FieldEmail, "Email is already registered")
	}

	switch n := utf8.RuneCountInString(r.Password); {
	case n == 0:
		errs.add(FieldPassword, "Password is required")
	case n < PasswordMin:
		errs.add(FieldPassword, fmt.Sprintf("Password must be at least %d characters", PasswordMin))
	case n > PasswordMax:
		errs.add(FieldPassword, fmt.Sprintf("Password must not exceed %d characters", PasswordMax))
	}

	switch {
	case r.PasswordConfirm == "":
		errs.add(FieldPasswordConfirm, "Please confirm your password")
	case r.PasswordConfirm != r.Password:
		errs.add(FieldPasswordConfirm, "Passwords do not match")
	}

	return errs
}

// ValidateLogin checks that both credentials were supplied.
func ValidateLogin(email, password string) Errors {
	errs := Errors{}
	if NormalizeEmail(email) == "" {
		errs.add(FieldEmail, "Email is required")
	}
	if password == "" {
		errs.add(FieldPassword, "Password is required")
	}
	return errs
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail reports whether s has a valid email shape.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// WordCount counts whitespace separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func checkText(label, value string, max int) string {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		return label + " is required"
	case n < TicketTextMin:
		return fmt.Sprintf("%s must be at least %d characters", label, TicketTextMin)
	case WordCount(value) < TicketMinWords:
		return fmt.Sprintf("%s must contain at least %d words", label, TicketMinWords)
	case n > max:
		return fmt.Sprintf("%s must not exceed %d characters", label, max)
	}
	return ""
}

func checkStatus(s domain.TicketStatus) string {
	if s == "" {
		return "Status is required"
	}
	if validate.Var(string(s), "oneof=open in_progress closed") != nil {
		return "Status must be open, in_progress, or closed"
	}
	return ""
}

func checkPriority(p domain.TicketPriority) string {
	if p == "" {
		return "Priority is required"
	}
	if validate.Var(string(p), "oneof=low medium high") != nil {
		return "Priority must be low, medium, or high"
	}
	return ""
}
