package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tecnotooling/estoque/backend/audit"
	"github.com/tecnotooling/estoque/backend/auth"
	"github.com/tecnotooling/estoque/backend/config"
	"github.com/tecnotooling/estoque/backend/database"
	"github.com/tecnotooling/estoque/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type discardSender struct{}

func (discardSender) Send(to, subject, html string) error { return nil }

func setupTest(t *testing.T) {
	t.Helper()

	var err error
	database.DB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := database.DB.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Movement{},
		&models.LogEntry{}, &models.ActivityEntry{},
	); err != nil {
		t.Fatal(err)
	}

	if err := config.Load(); err != nil {
		t.Fatal(err)
	}
	config.C.Session.Secret = "test-secret-key-32-chars-long!!!"

	if err := InitSession(); err != nil {
		t.Fatalf("InitSession failed: %v", err)
	}

	Init(auth.New(
		auth.NewGormUserStore(database.DB),
		discardSender{},
		audit.NewDBRecorder(database.DB),
		auth.Config{
			LockoutThreshold: config.C.Lockout.MaxAttempts,
			LockoutDuration:  config.C.Lockout.Duration,
			ResetTokenTTL:    config.C.Reset.TokenTTL,
			PasswordMaxAge:   config.C.Password.RotationMaxAge,
			TOTPIssuer:       "TecnoTooling",
			PublicURL:        config.C.PublicURL,
		},
	))
}

func createUser(t *testing.T, username, password string, mutate func(*models.User)) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	if mutate != nil {
		mutate(user)
	}
	if err := database.DB.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON response: %v (%s)", err, rr.Body.String())
	}
	return out
}

// authenticatedCookies logs the user in through the real handler and hands
// back the session cookies for follow-up requests.
func authenticatedCookies(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()
	rr := postJSON(t, Login, "/api/login", map[string]any{
		"username": username,
		"password": password,
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}
	return rr.Result().Cookies()
}

// sessionCookiesWith builds session cookies with arbitrary values, for
// driving guard states that the login handler would not produce.
func sessionCookiesWith(t *testing.T, values map[string]any) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	session, _ := Store.Get(req, SessionName)
	for k, v := range values {
		session.Values[k] = v
	}
	rr := httptest.NewRecorder()
	if err := session.Save(req, rr); err != nil {
		t.Fatal(err)
	}
	return rr.Result().Cookies()
}
