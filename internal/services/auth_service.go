package services

import (
	"errors"

	"tradehub/internal/domain"
	applog "tradehub/internal/log"
	"tradehub/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService is glue around the session table: it turns a sid cookie
// into the (actor_id, role) pair the core services consume. Every
// authenticated actor carries one of the marketplace tiers; a row
// with an unrecognized role never gets a session.
type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if !domain.ValidRole(u.Role) {
		applog.Security(nil, "auth.login", map[string]any{
			"error":   "unknown_role",
			"user_id": u.ID,
			"role":    u.Role,
		})
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	applog.Audit(nil, "auth.login", map[string]any{"user_id": u.ID, "role": u.Role})
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser resolves a sid to its user and re-checks the role so a
// tier change since login cannot ride an old session. The stale
// session is dropped rather than honored.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	u, err := s.Users.SessionUser(sid)
	if err != nil {
		return nil, err
	}
	if !domain.ValidRole(u.Role) {
		_ = s.Users.UnbindSession(sid)
		return nil, ErrBadCreds
	}
	return u, nil
}
