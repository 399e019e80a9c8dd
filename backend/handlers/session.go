package handlers

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/tecnotooling/estoque/backend/auth"
	"github.com/tecnotooling/estoque/backend/config"
	"github.com/tecnotooling/estoque/backend/database"
	"github.com/tecnotooling/estoque/backend/models"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "session"

	sessionKeyUserID       = "user_id"
	sessionKeyUserRole     = "user_role"
	sessionKeyState        = "auth_state"
	sessionKeyLastActivity = "last_activity"

	rememberCookieName = "remember_token"
)

var Store *sessions.CookieStore

// Svc is the auth service the handlers delegate to, wired in main.
var Svc *auth.Service

func Init(svc *auth.Service) {
	Svc = svc
}

// InitSession configures the cookie store from config. The secret is
// mandatory and must not be trivially short.
func InitSession() error {
	secret := config.C.Session.Secret
	if secret == "" {
		return errors.New("session secret is required (set SESSION_SECRET)")
	}
	if len(secret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}

	Store = sessions.NewCookieStore([]byte(secret))
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(config.C.Session.Timeout.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   config.C.TLS.Enabled,
	}
	return nil
}

// SessionState reads the login state out of a session. Absent or malformed
// values degrade to StateAwaitingCredentials.
func SessionState(session *sessions.Session) auth.State {
	v, ok := session.Values[sessionKeyState].(int)
	if !ok {
		return auth.StateAwaitingCredentials
	}
	return auth.State(v)
}

// SessionUserID returns the bound user id, or false when unauthenticated.
func SessionUserID(session *sessions.Session) (uint, bool) {
	id, ok := session.Values[sessionKeyUserID].(uint)
	return id, ok
}

// SessionLastActivity returns the last-activity stamp, zero when unset.
func SessionLastActivity(session *sessions.Session) time.Time {
	unix, ok := session.Values[sessionKeyLastActivity].(int64)
	if !ok {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}

// TouchSession refreshes the sliding inactivity window.
func TouchSession(session *sessions.Session) {
	session.Values[sessionKeyLastActivity] = time.Now().Unix()
}

// DestroySession wipes the session and expires its cookie.
func DestroySession(session *sessions.Session, w http.ResponseWriter, r *http.Request) {
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	session.Save(r, w)
}

// GetCurrentUser is a variable to allow mocking in tests
var GetCurrentUser = func(r *http.Request) *models.User {
	session, err := Store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	userID, ok := SessionUserID(session)
	if !ok {
		return nil
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil
	}
	return &user
}

// clientIP extracts the requester address for the audit trail.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}
