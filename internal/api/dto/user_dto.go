package dto

import "github.com/ticketflow/ticketflow/internal/domain"

// SignupForm payload for new users.
type SignupForm struct {
	Name                 string `form:"name"`
	Email                string `form:"email"`
	Password             string `form:"password"`
	PasswordConfirmation string `form:"password_confirmation"`
}

// Registration converts the form to domain input.
func (f SignupForm) Registration() domain.Registration {
	return domain.Registration{
		Name:            f.Name,
		Email:           f.Email,
		Password:        f.Password,
		PasswordConfirm: f.PasswordConfirmation,
	}
}

// Redisplay is the form echoed back after a failed submission; passwords
// are never sent back.
func (f SignupForm) Redisplay() SignupForm {
	return SignupForm{Name: f.Name, Email: f.Email}
}

// LoginForm payload for login.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// UserView is the renderable part of a user; it never carries the hash.
type UserView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserView projects a stored user.
func NewUserView(u *domain.User) UserView {
	return UserView{Name: u.Name, Email: u.Email}
}
