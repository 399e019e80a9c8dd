package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tecnotooling/estoque/backend/auth"
)

// TwoFactorSetup provisions a fresh TOTP secret for the logged-in user and
// returns it with an inline QR code. The account is not 2FA-enabled until
// the user confirms a code through TwoFactorVerify.
func TwoFactorSetup(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	userID, ok := SessionUserID(session)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	setup, err := Svc.ProvisionTwoFactor(userID)
	if err != nil {
		slog.Error("2FA setup failed", "source", "mfa", "user_id", userID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Erro ao configurar 2FA")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret": setup.Secret,
		"qrCode": setup.QRCodeURL,
	})
}

// TwoFactorVerify serves two transitions: completing a login that stopped at
// the 2FA step, and confirming a freshly provisioned secret for an already
// authenticated user.
func TwoFactorVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "Código é obrigatório")
		return
	}

	session, _ := Store.Get(r, SessionName)
	userID, ok := SessionUserID(session)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	switch state := SessionState(session); state {
	case auth.StateAwaitingTwoFactor:
		next, err := Svc.VerifyTwoFactor(state, userID, req.Token, clientIP(r), r.UserAgent())
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCode) {
				slog.Warn("2FA verification failed: invalid code", "source", "mfa", "user_id", userID)
				writeError(w, http.StatusUnauthorized, "Código inválido")
				return
			}
			slog.Error("2FA verification error", "source", "mfa", "user_id", userID, "error", err.Error())
			writeError(w, http.StatusInternalServerError, "Erro ao verificar 2FA")
			return
		}

		session.Values[sessionKeyState] = int(next)
		TouchSession(session)
		session.Save(r, w)

		slog.Info("2FA verification successful", "source", "mfa", "user_id", userID)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	case auth.StateAuthenticated:
		if err := Svc.ConfirmTwoFactorSetup(userID, req.Token, clientIP(r), r.UserAgent()); err != nil {
			if errors.Is(err, auth.ErrInvalidCode) {
				slog.Warn("2FA enable failed: invalid code", "source", "mfa", "user_id", userID)
				writeError(w, http.StatusUnauthorized, "Código inválido")
				return
			}
			slog.Error("2FA enable error", "source", "mfa", "user_id", userID, "error", err.Error())
			writeError(w, http.StatusInternalServerError, "Erro ao verificar 2FA")
			return
		}

		slog.Info("2FA enabled", "source", "mfa", "user_id", userID)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusUnauthorized, "Não autorizado")
	}
}
