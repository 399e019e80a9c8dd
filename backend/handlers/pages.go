package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/tecnotooling/estoque/backend/auth"
	"github.com/tecnotooling/estoque/backend/config"
)

// Page serves a static page from the public directory.
func Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(config.C.PublicDir, name))
	}
}

// LoginPage is the root: authenticated sessions go straight to the
// dashboard, everyone else gets the login screen.
func LoginPage(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	if _, ok := SessionUserID(session); ok && SessionState(session) == auth.StateAuthenticated {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.ServeFile(w, r, filepath.Join(config.C.PublicDir, "login.html"))
}
