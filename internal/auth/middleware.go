package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ticketflow/ticketflow/internal/domain"
)

const (
	sessionLocalsKey   = "auth_session"
	destroyedLocalsKey = "auth_session_destroyed"
	identityLocalsKey  = "auth_identity"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/auth/login"

// DefaultPublicPaths are reachable without logging in. A trailing "/*"
// marks a prefix.
var DefaultPublicPaths = []string{"/", "/auth/login", "/auth/signup", "/health/*"}

// Gate loads the visitor's session for every request and redirects
// anonymous visitors away from private paths before routing happens.
type Gate struct {
	sessions *session.Store
	tokens   *TokenManager
	exact    map[string]struct{}
	prefixes []string
}

// NewGate constructs the gate. With no publicPaths, DefaultPublicPaths apply.
func NewGate(sessions *session.Store, tokens *TokenManager, publicPaths ...string) *Gate {
	if len(publicPaths) == 0 {
		publicPaths = DefaultPublicPaths
	}
	g := &Gate{sessions: sessions, tokens: tokens, exact: make(map[string]struct{})}
	for _, p := range publicPaths {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			g.prefixes = append(g.prefixes, prefix+"/")
			continue
		}
		g.exact[p] = struct{}{}
	}
	return g
}

// IsPublic reports whether path skips the login check.
func (g *Gate) IsPublic(path string) bool {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if _, ok := g.exact[path]; ok {
		return true
	}
	for _, prefix := range g.prefixes {
		if strings.HasPrefix(path+"/", prefix) {
			return true
		}
	}
	return false
}

// Handle is the fiber middleware.
func (g *Gate) Handle(c *fiber.Ctx) error {
	sess, err := g.sessions.Get(c)
	if err != nil {
		return err
	}
	c.Locals(sessionLocalsKey, sess)

	if id, ok := g.verify(sess); ok {
		c.Locals(identityLocalsKey, id)
	} else if !g.IsPublic(c.Path()) {
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect(LoginPath, http.StatusFound)
	}

	handlerErr := c.Next()

	if destroyed, _ := c.Locals(destroyedLocalsKey).(bool); destroyed {
		return handlerErr
	}
	if err := sess.Save(); err != nil && handlerErr == nil {
		return err
	}
	return handlerErr
}

// verify accepts the session only when its token is valid and names the
// same account. A failing token logs the session out.
func (g *Gate) verify(sess Session) (domain.Identity, bool) {
	id, ok := CurrentIdentity(sess)
	if !ok {
		return domain.Identity{}, false
	}
	claims, err := g.tokens.ParseToken(SessionToken(sess))
	if err != nil || claims.Email != id.Email {
		Logout(sess)
		return domain.Identity{}, false
	}
	return id, true
}

// SessionFromContext returns the session the gate loaded.
func SessionFromContext(c *fiber.Ctx) (*session.Session, bool) {
	sess, ok := c.Locals(sessionLocalsKey).(*session.Session)
	return sess, ok && sess != nil
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	id, ok := c.Locals(identityLocalsKey).(domain.Identity)
	return id, ok
}

// RegenerateSession issues a fresh session id, used right before login.
func RegenerateSession(c *fiber.Ctx) error {
	sess, ok := SessionFromContext(c)
	if !ok {
		return fiber.ErrInternalServerError
	}
	return sess.Regenerate()
}

// DestroySession drops the session from storage and expires its cookie.
func DestroySession(c *fiber.Ctx) error {
	sess, ok := SessionFromContext(c)
	if !ok {
		return nil
	}
	Logout(sess)
	c.Locals(destroyedLocalsKey, true)
	return sess.Destroy()
}
