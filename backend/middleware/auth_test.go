package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tecnotooling/estoque/backend/audit"
	"github.com/tecnotooling/estoque/backend/auth"
	"github.com/tecnotooling/estoque/backend/config"
	"github.com/tecnotooling/estoque/backend/database"
	"github.com/tecnotooling/estoque/backend/handlers"
	"github.com/tecnotooling/estoque/backend/mailer"
	"github.com/tecnotooling/estoque/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGuardTest(t *testing.T) {
	t.Helper()

	var err error
	database.DB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := database.DB.AutoMigrate(&models.User{}, &models.ActivityEntry{}); err != nil {
		t.Fatal(err)
	}

	if err := config.Load(); err != nil {
		t.Fatal(err)
	}
	config.C.Session.Secret = "test-secret-key-32-chars-long!!!"
	if err := handlers.InitSession(); err != nil {
		t.Fatal(err)
	}

	handlers.Init(auth.New(
		auth.NewGormUserStore(database.DB),
		mailer.Discard{},
		audit.Discard{},
		auth.Config{
			LockoutThreshold: 5,
			LockoutDuration:  30 * time.Minute,
		},
	))
}

func guardUser(t *testing.T, role, status string, twoFactor bool) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("Correct1!"), bcrypt.MinCost)
	user := &models.User{
		Username:         "guard-" + role + "-" + status,
		PasswordHash:     string(hash),
		Role:             role,
		Status:           status,
		TwoFactorEnabled: twoFactor,
	}
	if err := database.DB.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

// guardRequest builds a request carrying a session with the given values.
func guardRequest(t *testing.T, values map[string]any) *http.Request {
	t.Helper()
	seed := httptest.NewRequest("GET", "/dashboard", nil)
	session, _ := handlers.Store.Get(seed, handlers.SessionName)
	for k, v := range values {
		session.Values[k] = v
	}
	rr := httptest.NewRecorder()
	if err := session.Save(seed, rr); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func nextProbe(called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireAuth_NoSessionRedirects(t *testing.T) {
	setupGuardTest(t)

	var called bool
	req := httptest.NewRequest("GET", "/dashboard", nil)
	rr := httptest.NewRecorder()
	RequireAuth(nextProbe(&called))(rr, req)

	if called {
		t.Error("Handler should not run without a session")
	}
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Errorf("Expected redirect to /, got %d %s", rr.Code, rr.Header().Get("Location"))
	}
}

func TestRequireAuth_ActiveUserAllowed(t *testing.T) {
	setupGuardTest(t)
	user := guardUser(t, models.RoleUser, models.StatusActive, false)

	var called bool
	req := guardRequest(t, map[string]any{
		"user_id":       user.ID,
		"auth_state":    int(auth.StateAuthenticated),
		"last_activity": time.Now().Unix(),
	})
	rr := httptest.NewRecorder()
	RequireAuth(nextProbe(&called))(rr, req)

	if !called {
		t.Fatalf("Handler should run for an active session, got %d", rr.Code)
	}
}

func TestRequireAuth_InactivityTimeout(t *testing.T) {
	setupGuardTest(t)
	user := guardUser(t, models.RoleUser, models.StatusActive, false)

	var called bool
	req := guardRequest(t, map[string]any{
		"user_id":       user.ID,
		"auth_state":    int(auth.StateAuthenticated),
		"last_activity": time.Now().Add(-31 * time.Minute).Unix(),
	})
	rr := httptest.NewRecorder()
	RequireAuth(nextProbe(&called))(rr, req)

	if called {
		t.Error("Handler should not run after the inactivity window")
	}
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Errorf("Expected redirect to /, got %d %s", rr.Code, rr.Header().Get("Location"))
	}
}

func TestRequireAuth_WithinWindowAllowed(t *testing.T) {
	setupGuardTest(t)
	user := guardUser(t, models.RoleUser, models.StatusActive, false)

	var called bool
	req := guardRequest(t, map[string]any{
		"user_id":       user.ID,
		"auth_state":    int(auth.StateAuthenticated),
		"last_activity": time.Now().Add(-29 * time.Minute).Unix(),
	})
	rr := httptest.NewRecorder()
	RequireAuth(nextProbe(&called))(rr, req)

	if !called {
		t.Error("Handler should run within the inactivity window")
	}
	// The allowed request must slide the window: a fresh session cookie is
	// issued with the updated stamp.
	if len(rr.Result().Cookies()) == 0 {
		t.Error("Expected a refreshed session cookie")
	}
}

func TestRequireAuth_InactiveUserDestroyed(t *testing.T) {
	setupGuardTest(t)
	user := guardUser(t, models.RoleUser, models.StatusInactive, false)

	var called bool
	req := guardRequest(t, map[string]any{
		"user_id":       user.ID,
		"auth_state":    int(auth.StateAuthenticated),
		"last_activity": time.Now().Unix(),
	})
	rr := httptest.NewRecorder()
	RequireAuth(nextProbe(&called))(rr, req)

	if called {
		t.Error("Handler should not run for an inactive account")
	}
	if rr.Header().Get("Location") != "/?error=account-inactive" {
		t.Errorf("Expected account-inactive redirect, got %s", rr.Header().Get("Location"))
	}
}

func TestRequireAuth_MissingUserDestroyed(t *testing.T) {
	setupGuardTest(t)

	var called bool
	req := guardRequest(t, map[string]any{
		"user_id":       uint(9999),
		"auth_state":    int(auth.StateAuthenticated),
		"last_activity": time.Now().Unix(),
	})
	rr := httptest.NewRecorder()
	RequireAuth(nextProbe(&called))(rr, req)

	if called {
		t.Error("Handler should not run when the user row is gone")
	}
	if rr.Header().Get("Location") != "/?error=account-inactive" {
		t.Errorf("Expected account-inactive redirect, got %s", rr.Header().Get("Location"))
	}
}

func TestRequireAuth_PendingTwoFactorDetours(t *testing.T) {
	setupGuardTest(t)
	user := guardUser(t, models.RoleUser, models.StatusActive, true)

	var called bool
	req := guardRequest(t, map[string]any{
		"user_id":       user.ID,
		"auth_state":    int(auth.StateAwaitingTwoFactor),
		"last_activity": time.Now().Unix(),
	})
	rr := httptest.NewRecorder()
	RequireAuth(nextProbe(&called))(rr, req)

	if called {
		t.Error("Handler should not run before 2FA completes")
	}
	if rr.Header().Get("Location") != "/2fa-verify" {
		t.Errorf("Expected detour to /2fa-verify, got %s", rr.Header().Get("Location"))
	}
}

func TestRequireAdmin_ForbiddenForNonAdmin(t *testing.T) {
	setupGuardTest(t)
	user := guardUser(t, models.RoleUser, models.StatusActive, false)

	var called bool
	req := guardRequest(t, map[string]any{
		"user_id":       user.ID,
		"auth_state":    int(auth.StateAuthenticated),
		"last_activity": time.Now().Unix(),
	})
	rr := httptest.NewRecorder()
	RequireAdmin(nextProbe(&called))(rr, req)

	if called {
		t.Error("Handler should not run for a non-admin")
	}
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
}

func TestRequireAdmin_AllowsActiveAdmin(t *testing.T) {
	setupGuardTest(t)
	user := guardUser(t, models.RoleAdmin, models.StatusActive, false)

	var called bool
	req := guardRequest(t, map[string]any{
		"user_id":       user.ID,
		"auth_state":    int(auth.StateAuthenticated),
		"last_activity": time.Now().Unix(),
	})
	rr := httptest.NewRecorder()
	RequireAdmin(nextProbe(&called))(rr, req)

	if !called {
		t.Errorf("Handler should run for an active admin, got %d", rr.Code)
	}
}
