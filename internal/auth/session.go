package auth

import "github.com/ticketflow/ticketflow/internal/domain"

// Session keys holding identity state.
const (
	keyAuthenticated = "authenticated"
	keyEmail         = "user_email"
	keyName          = "user_name"
	keyToken         = "session_token"
	keyFlash         = "flash"
)

// Session is the per-visitor key/value state. *session.Session from fiber
// satisfies it.
type Session interface {
	Get(key string) interface{}
	Set(key string, val interface{})
	Delete(key string)
}

// IsAuthenticated reports whether Login ran on this session and Logout has
// not cleared it since.
func IsAuthenticated(s Session) bool {
	ok, _ := s.Get(keyAuthenticated).(bool)
	email, _ := s.Get(keyEmail).(string)
	return ok && email != ""
}

// Login records the identity and its signed token.
func Login(s Session, id domain.Identity, token string) {
	s.Set(keyAuthenticated, true)
	s.Set(keyEmail, id.Email)
	s.Set(keyName, id.Name)
	s.Set(keyToken, token)
}

// Logout clears every identity key. Flash messages survive so a page after
// logout can still show one.
func Logout(s Session) {
	s.Delete(keyAuthenticated)
	s.Delete(keyEmail)
	s.Delete(keyName)
	s.Delete(keyToken)
}

// CurrentIdentity returns the stored identity, if any.
func CurrentIdentity(s Session) (domain.Identity, bool) {
	if !IsAuthenticated(s) {
		return domain.Identity{}, false
	}
	name, _ := s.Get(keyName).(string)
	email, _ := s.Get(keyEmail).(string)
	return domain.Identity{Email: email, Name: name}, true
}

// SessionToken returns the token stored at login.
func SessionToken(s Session) string {
	token, _ := s.Get(keyToken).(string)
	return token
}

// SetFlash queues a one-shot message for the next rendered page.
func SetFlash(s Session, msg string) {
	s.Set(keyFlash, msg)
}

// PopFlash returns and clears the queued message.
func PopFlash(s Session) string {
	msg, _ := s.Get(keyFlash).(string)
	if msg != "" {
		s.Delete(keyFlash)
	}
	return msg
}
