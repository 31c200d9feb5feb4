package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticketflow/ticketflow/internal/auth"
)

// renderPage renders view inside the main layout with the signed-in user
// and any pending flash message added to data.
func renderPage(c *fiber.Ctx, status int, view, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["title"] = title
	if id, ok := auth.IdentityFromContext(c); ok {
		data["user"] = id
	}
	if sess, ok := auth.SessionFromContext(c); ok {
		if msg := auth.PopFlash(sess); msg != "" {
			data["flash"] = msg
		}
	}
	if _, ok := data["errors"]; !ok {
		data["errors"] = map[string]string{}
	}
	return c.Status(status).Render(view, data)
}

// redirectWithFlash queues msg and redirects with 302.
func redirectWithFlash(c *fiber.Ctx, location, msg string) error {
	if sess, ok := auth.SessionFromContext(c); ok && msg != "" {
		auth.SetFlash(sess, msg)
	}
	return c.Redirect(location, fiber.StatusFound)
}
