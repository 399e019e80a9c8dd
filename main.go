package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/tecnotooling/estoque/backend/audit"
	"github.com/tecnotooling/estoque/backend/auth"
	"github.com/tecnotooling/estoque/backend/config"
	"github.com/tecnotooling/estoque/backend/database"
	"github.com/tecnotooling/estoque/backend/handlers"
	"github.com/tecnotooling/estoque/backend/logger"
	"github.com/tecnotooling/estoque/backend/mailer"
	"github.com/tecnotooling/estoque/backend/middleware"
)

// Rate limiter for auth endpoints (10 requests per minute)
var authRateLimiter = middleware.NewRateLimiter(10, time.Minute)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Initialize session store with configured secret and timeout
	if err := handlers.InitSession(); err != nil {
		log.Fatal("Failed to init session:", err)
	}

	if err := database.Init(); err != nil {
		log.Fatal("Failed to init database:", err)
	}

	// Initialize structured logging
	slog.SetDefault(slog.New(logger.NewDBHandler(database.DB)))
	go logger.CleanupOldLogs(database.DB, 48*time.Hour) // Keep logs for 2 days

	// Wire the auth service
	svc := auth.New(
		auth.NewGormUserStore(database.DB),
		mailer.NewSMTPSender(config.C.SMTP),
		audit.NewDBRecorder(database.DB),
		auth.Config{
			LockoutThreshold: config.C.Lockout.MaxAttempts,
			LockoutDuration:  config.C.Lockout.Duration,
			ResetTokenTTL:    config.C.Reset.TokenTTL,
			PasswordMaxAge:   config.C.Password.RotationMaxAge,
			TOTPIssuer:       "TecnoTooling",
			PublicURL:        config.C.PublicURL,
		},
	)
	handlers.Init(svc)

	slog.Info("server starting", "source", "main", "listen", config.C.Listen, "public_url", config.C.PublicURL)

	mux := http.NewServeMux()

	// Health check (unauthenticated, for load balancers)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Auth API (public, rate limited)
	mux.HandleFunc("POST /api/login", authRateLimiter.LimitFunc(handlers.Login))
	mux.HandleFunc("POST /api/logout", handlers.Logout)
	mux.HandleFunc("GET /api/session", handlers.SessionStatus)
	mux.HandleFunc("POST /api/2fa/verify", authRateLimiter.LimitFunc(handlers.TwoFactorVerify))
	mux.HandleFunc("POST /api/reset-password-request", authRateLimiter.LimitFunc(handlers.ResetPasswordRequest))
	mux.HandleFunc("POST /api/reset-password", authRateLimiter.LimitFunc(handlers.ResetPassword))

	// Auth API (session required)
	mux.HandleFunc("POST /api/2fa/setup", middleware.RequireAuth(handlers.TwoFactorSetup))
	mux.HandleFunc("POST /api/change-password", middleware.RequireAuth(handlers.ChangePassword))
	mux.HandleFunc("GET /api/user/role", middleware.RequireAuth(handlers.UserRole))

	// User management (admin only)
	mux.HandleFunc("POST /api/users", middleware.RequireAuth(middleware.RequireAdmin(handlers.CreateUser)))

	// Inventory API
	mux.HandleFunc("GET /api/estoque", middleware.RequireAuth(handlers.ListProducts))
	mux.HandleFunc("GET /api/produtos/busca", middleware.RequireAuth(handlers.SearchProducts))
	mux.HandleFunc("POST /api/cadastrar", middleware.RequireAuth(handlers.RegisterProduct))
	mux.HandleFunc("POST /api/baixa", middleware.RequireAuth(handlers.WithdrawProduct))
	mux.HandleFunc("GET /api/produto/{id}", middleware.RequireAuth(handlers.GetProduct))
	mux.HandleFunc("DELETE /api/remover/{id}", middleware.RequireAuth(handlers.RemoveProduct))
	mux.HandleFunc("GET /api/historico", middleware.RequireAuth(handlers.ListMovements))

	// Pages
	mux.HandleFunc("GET /{$}", handlers.LoginPage)
	mux.HandleFunc("GET /2fa-verify", handlers.Page("2fa-verify.html"))
	mux.HandleFunc("GET /reset-password", handlers.Page("reset-password.html"))
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(handlers.Page("index.html")))
	mux.HandleFunc("GET /estoque", middleware.RequireAuth(handlers.Page("estoque.html")))
	mux.HandleFunc("GET /cadastrar", middleware.RequireAuth(handlers.Page("cadastrar.html")))
	mux.HandleFunc("GET /baixa", middleware.RequireAuth(handlers.Page("baixa.html")))
	mux.HandleFunc("GET /historico", middleware.RequireAuth(handlers.Page("historico.html")))
	mux.HandleFunc("GET /configuracao", middleware.RequireAuth(middleware.RequireAdmin(handlers.Page("configuracao.html"))))
	mux.HandleFunc("GET /usuarios/novo", middleware.RequireAuth(middleware.RequireAdmin(handlers.Page("usuarios_novo.html"))))

	// Static assets
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(config.C.PublicDir))))

	// Wrap all routes with security headers
	handler := middleware.SecurityHeaders(mux)

	fmt.Printf("Server running at %s (public: %s)\n", config.C.Listen, config.C.PublicURL)
	if config.C.TLS.Enabled {
		slog.Info("starting server with TLS", "source", "main")
		log.Fatal(http.ListenAndServeTLS(config.C.Listen, config.C.TLS.Cert, config.C.TLS.Key, handler))
	} else {
		log.Fatal(http.ListenAndServe(config.C.Listen, handler))
	}
}
