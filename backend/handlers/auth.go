package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tecnotooling/estoque/backend/auth"
	"github.com/tecnotooling/estoque/backend/config"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username e senha são obrigatórios")
		return
	}

	result, err := Svc.Login(req.Username, req.Password, req.Remember, clientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			slog.Warn("login failed: user not found", "source", "auth", "username", req.Username)
			writeError(w, http.StatusUnauthorized, "Usuário não encontrado")
		case errors.Is(err, auth.ErrAccountLocked):
			slog.Warn("login failed: account locked", "source", "auth", "username", req.Username)
			writeError(w, http.StatusUnauthorized, "Conta bloqueada. Tente novamente mais tarde.")
		case errors.Is(err, auth.ErrBadPassword):
			slog.Warn("login failed: invalid password", "source", "auth", "username", req.Username)
			writeError(w, http.StatusUnauthorized, "Senha incorreta")
		default:
			slog.Error("login error", "source", "auth", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "Erro no servidor")
		}
		return
	}

	session, _ := Store.Get(r, SessionName)
	session.Values[sessionKeyUserID] = result.User.ID
	session.Values[sessionKeyUserRole] = result.User.Role
	session.Values[sessionKeyState] = int(result.State)
	TouchSession(session)
	session.Save(r, w)

	if result.RememberToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     rememberCookieName,
			Value:    result.RememberToken,
			MaxAge:   int(config.C.Remember.MaxAge.Seconds()),
			HttpOnly: true,
			Secure:   config.C.TLS.Enabled,
			Path:     "/",
		})
	}

	slog.Info("user logged in", "source", "auth", "user_id", result.User.ID, "username", req.Username)

	if result.RequiresTwoFactor {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":           true,
			"requiresTwoFactor": true,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":                true,
		"role":                   result.User.Role,
		"requiresPasswordChange": result.RequiresPasswordChange,
	})
}

// Logout is best-effort: whatever fails, the client ends up without a
// session cookie or a remember cookie.
func Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	userID, hadUser := SessionUserID(session)

	DestroySession(session, w, r)

	if hadUser {
		if err := Svc.Store().ClearRememberToken(userID); err != nil {
			slog.Warn("failed to clear remember token", "source", "auth", "user_id", userID, "error", err.Error())
		}
		slog.Info("user logged out", "source", "auth", "user_id", userID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// SessionStatus reports whether the browser holds a fully authenticated
// session. A session parked at the 2FA step is not authenticated yet.
func SessionStatus(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	userID, ok := SessionUserID(session)
	if !ok || SessionState(session) != auth.StateAuthenticated {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	user, err := Svc.Store().FindByID(userID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func UserRole(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	userID, _ := SessionUserID(session)

	user, err := Svc.Store().FindByID(userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"role": user.Role})
}
