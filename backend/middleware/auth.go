package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tecnotooling/estoque/backend/auth"
	"github.com/tecnotooling/estoque/backend/config"
	"github.com/tecnotooling/estoque/backend/handlers"
	"github.com/tecnotooling/estoque/backend/models"
)

// RequireAuth is the session guard applied to every protected route. Check
// order matters: the inactivity window is evaluated before the account is
// reloaded, and every allowed request slides the window forward.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := handlers.Store.Get(r, handlers.SessionName)

		if _, ok := handlers.SessionUserID(session); !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		if last := handlers.SessionLastActivity(session); !last.IsZero() &&
			time.Since(last) > config.C.Session.InactivityTimeout {
			handlers.DestroySession(session, w, r)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		user := handlers.GetCurrentUser(r)
		if user == nil || user.Status != models.StatusActive {
			handlers.DestroySession(session, w, r)
			http.Redirect(w, r, "/?error=account-inactive", http.StatusSeeOther)
			return
		}

		// 2FA-enabled accounts must finish verification first; this is a
		// detour to the verification step, not a logout.
		if user.TwoFactorEnabled && handlers.SessionState(session) != auth.StateAuthenticated {
			http.Redirect(w, r, "/2fa-verify", http.StatusSeeOther)
			return
		}

		handlers.TouchSession(session)
		session.Save(r, w)

		next(w, r)
	}
}

// RequireAdmin layers the role check on top of RequireAuth. Failure is a
// 403, not a redirect: the caller is authenticated, just not allowed.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := handlers.GetCurrentUser(r)
		if user == nil || user.Status != models.StatusActive || user.Role != models.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Acesso negado. Requer privilégios de administrador.",
			})
			return
		}
		next(w, r)
	}
}
