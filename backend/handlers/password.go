package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tecnotooling/estoque/backend/auth"
)

const weakPasswordMessage = "A senha deve ter pelo menos 8 caracteres, incluindo maiúsculas, minúsculas, números e caracteres especiais"

// ResetPasswordRequest answers identically whether or not the email is
// registered, so the endpoint cannot be used to enumerate accounts.
func ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email é obrigatório")
		return
	}

	if err := Svc.RequestReset(req.Email); err != nil {
		slog.Error("password reset request failed", "source", "auth", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Erro ao solicitar redefinição de senha")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Email de redefinição enviado",
	})
}

func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	err := Svc.CompleteReset(req.Token, req.NewPassword, clientIP(r), r.UserAgent())
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, weakPasswordMessage)
	case errors.Is(err, auth.ErrInvalidResetToken):
		writeError(w, http.StatusBadRequest, "Token inválido ou expirado")
	case err != nil:
		slog.Error("password reset failed", "source", "auth", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Erro ao redefinir senha")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	session, _ := Store.Get(r, SessionName)
	userID, _ := SessionUserID(session)

	err := Svc.ChangePassword(userID, req.CurrentPassword, req.NewPassword, clientIP(r), r.UserAgent())
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, weakPasswordMessage)
	case errors.Is(err, auth.ErrBadPassword):
		writeError(w, http.StatusUnauthorized, "Senha atual incorreta")
	case err != nil:
		slog.Error("password change failed", "source", "auth", "user_id", userID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Erro ao alterar senha")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
