package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tecnotooling/estoque/backend/auth"
)

// CreateUser provisions a new account. Admin-only (enforced at the route).
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	user, err := Svc.CreateUser(req.Username, req.Email, req.Password, req.Role)
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, "Username já existe")
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, weakPasswordMessage)
	case err != nil:
		slog.Error("user creation failed", "source", "users", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Erro interno")
	default:
		slog.Info("user created", "source", "users", "user_id", user.ID, "username", user.Username)
		writeJSON(w, http.StatusOK, map[string]string{"mensagem": "Usuário criado com sucesso"})
	}
}
