package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ticketflow/ticketflow/internal/api/dto"
	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/service"
	apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authService, logger: logger}
}

// ShowLogin GET /auth/login.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); ok {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return h.renderLogin(c, fiber.StatusOK, dto.LoginForm{}, nil)
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderLogin(c, fiber.StatusBadRequest, form, map[string]string{"general": "Invalid form submission"})
	}
	redisplay := dto.LoginForm{Email: form.Email}

	id, token, err := h.auth.LoginUser(c.UserContext(), form.Email, form.Password)
	if fieldErrs, ok := apperrors.FieldErrors(err); ok {
		return h.renderLogin(c, fiber.StatusUnprocessableEntity, redisplay, fieldErrs)
	}
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		return h.renderLogin(c, apperrors.ErrInvalidCredentials.HTTPStatus, redisplay, map[string]string{
			"general": apperrors.ErrInvalidCredentials.Message,
		})
	}
	if err != nil {
		return err
	}

	if err := auth.RegenerateSession(c); err != nil {
		return err
	}
	sess, _ := auth.SessionFromContext(c)
	auth.Login(sess, id, token)
	h.logger.Info("user logged in", zap.String("email", id.Email))
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// ShowSignup GET /auth/signup.
func (h *AuthHandler) ShowSignup(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); ok {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return h.renderSignup(c, fiber.StatusOK, dto.SignupForm{}, nil)
}

// Signup POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var form dto.SignupForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderSignup(c, fiber.StatusBadRequest, form.Redisplay(), nil)
	}

	user, err := h.auth.RegisterUser(c.UserContext(), form.Registration())
	if fieldErrs, ok := apperrors.FieldErrors(err); ok {
		return h.renderSignup(c, fiber.StatusUnprocessableEntity, form.Redisplay(), fieldErrs)
	}
	if err != nil {
		return err
	}

	view := dto.NewUserView(user)
	h.logger.Info("user registered", zap.String("email", view.Email), zap.String("name", view.Name))
	return redirectWithFlash(c, auth.LoginPath, "Account created! Please login.")
}

// Logout GET /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := auth.DestroySession(c); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, status int, form dto.LoginForm, errs map[string]string) error {
	return renderPage(c, status, "auth/login", "Log in", fiber.Map{"old": form, "errors": nonNil(errs)})
}

func (h *AuthHandler) renderSignup(c *fiber.Ctx, status int, form dto.SignupForm, errs map[string]string) error {
	return renderPage(c, status, "auth/signup", "Sign up", fiber.Map{"old": form, "errors": nonNil(errs)})
}

func nonNil(errs map[string]string) map[string]string {
	if errs == nil {
		return map[string]string{}
	}
	return errs
}
