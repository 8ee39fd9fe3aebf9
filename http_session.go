package foodbook

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SessionPrincipalKey is the session key holding the logged in email
const SessionPrincipalKey = "principal_email"

// SessionTokenKey holds the login token the session is bound to
const SessionTokenKey = "principal_token"

// SessionPrincipals keeps the form login principal in a fiber session
type SessionPrincipals struct {
	store  *session.Store
	logger Logger
}

func NewSessionPrincipals(store *session.Store, logger Logger) *SessionPrincipals {
	if logger == nil {
		logger = defaultLogger()
	}
	return &SessionPrincipals{store: store, logger: logger}
}

// PrincipalEmail satisfies PrincipalSource
func (s *SessionPrincipals) PrincipalEmail(c *fiber.Ctx) (string, string, bool) {
	sess, err := s.store.Get(c)
	if err != nil {
		s.logger.Warn("Unable to load session", "error", err)
		return "", "", false
	}

	email, ok := sess.Get(SessionPrincipalKey).(string)
	if !ok || strings.TrimSpace(email) == "" {
		return "", "", false
	}
	token, _ := sess.Get(SessionTokenKey).(string)
	return email, token, true
}

// Establish binds email and its login token to a fresh session id
func (s *SessionPrincipals) Establish(c *fiber.Ctx, email, token string) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return internalError(err, "failed to load session")
	}

	if err := sess.Regenerate(); err != nil {
		return internalError(err, "failed to regenerate session")
	}

	sess.Set(SessionPrincipalKey, email)
	sess.Set(SessionTokenKey, token)

	if err := sess.Save(); err != nil {
		return internalError(err, "failed to save session")
	}
	return nil
}

// Clear drops the session
func (s *SessionPrincipals) Clear(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return internalError(err, "failed to load session")
	}
	if err := sess.Destroy(); err != nil {
		return internalError(err, "failed to destroy session")
	}
	return nil
}
