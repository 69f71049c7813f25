package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/termtracker/backend/src/config"
	"github.com/username/termtracker/backend/src/database"
	"github.com/username/termtracker/backend/src/handlers"
	"github.com/username/termtracker/backend/src/logger"
	"github.com/username/termtracker/backend/src/security"
	"github.com/username/termtracker/backend/src/services"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("TermTracker backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}
	if len(config.Cfg.CSRFAuthKey) < 32 {
		logger.L.Error("CSRF_AUTH_KEY must be at least 32 bytes long.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(15*time.Minute, 30*time.Minute)
	logger.L.Info("Report cache initialized.")

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()
	instrumentService := services.NewInstrumentService(reportCache)
	reportService := services.NewReportService(instrumentService, reportCache)

	userHandler := handlers.NewUserHandler(authService, emailService, instrumentService)
	depositHandler := handlers.NewDepositHandler(instrumentService)
	pensionHandler := handlers.NewPensionHandler(instrumentService)
	profileHandler := handlers.NewProfileHandler(instrumentService)
	reportHandler := handlers.NewReportHandler(reportService)

	handlers.InitializeGoogleOAuthConfig()

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	// Public GET routes (no CSRF needed for these GETs)
	apiRouter.HandleFunc("GET /api/auth/csrf", handlers.GetCSRFToken)
	apiRouter.HandleFunc("GET /api/auth/verify-email", userHandler.VerifyEmailHandler)
	apiRouter.HandleFunc("GET /api/auth/google/login", userHandler.HandleGoogleLogin)
	apiRouter.HandleFunc("GET /api/auth/google/callback", userHandler.HandleGoogleCallback)

	// Auth actions router; POST routes go through CSRF
	authActionRouter := http.NewServeMux()
	authActionRouter.HandleFunc("POST /login", userHandler.LoginUserHandler)
	authActionRouter.HandleFunc("POST /register", userHandler.RegisterUserHandler)
	authActionRouter.HandleFunc("POST /refresh", userHandler.RefreshTokenHandler)
	authActionRouter.HandleFunc("POST /logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))
	authActionRouter.HandleFunc("POST /request-password-reset", userHandler.RequestPasswordResetHandler)
	authActionRouter.HandleFunc("POST /reset-password", userHandler.ResetPasswordHandler)

	apiRouter.Handle("/api/auth/", http.StripPrefix("/api/auth", handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey)(authActionRouter)))

	// CSRF and Auth middleware for protected API routes
	csrfProtection := handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey)
	applyCsrfAndAuth := func(handler http.HandlerFunc) http.Handler {
		return csrfProtection(http.HandlerFunc(userHandler.AuthMiddleware(handler)))
	}

	apiRouter.Handle("POST /api/deposits", applyCsrfAndAuth(depositHandler.HandleCreateDeposit))
	apiRouter.Handle("GET /api/deposits", applyCsrfAndAuth(depositHandler.HandleListDeposits))
	apiRouter.Handle("GET /api/deposits/{id}", applyCsrfAndAuth(depositHandler.HandleGetDeposit))
	apiRouter.Handle("GET /api/deposits/{id}/converted", applyCsrfAndAuth(depositHandler.HandleGetDepositConverted))
	apiRouter.Handle("PUT /api/deposits/{id}", applyCsrfAndAuth(depositHandler.HandleUpdateDeposit))
	apiRouter.Handle("DELETE /api/deposits/{id}", applyCsrfAndAuth(depositHandler.HandleDeleteDeposit))

	apiRouter.Handle("POST /api/pensions", applyCsrfAndAuth(pensionHandler.HandleCreatePension))
	apiRouter.Handle("GET /api/pensions", applyCsrfAndAuth(pensionHandler.HandleListPensions))
	apiRouter.Handle("GET /api/pensions/{id}", applyCsrfAndAuth(pensionHandler.HandleGetPension))
	apiRouter.Handle("PUT /api/pensions/{id}", applyCsrfAndAuth(pensionHandler.HandleUpdatePension))
	apiRouter.Handle("DELETE /api/pensions/{id}", applyCsrfAndAuth(pensionHandler.HandleDeletePension))

	apiRouter.Handle("GET /api/tax-profiles", applyCsrfAndAuth(profileHandler.HandleListTaxProfiles))
	apiRouter.Handle("GET /api/tax-profiles/{jurisdiction}", applyCsrfAndAuth(profileHandler.HandleGetTaxProfile))
	apiRouter.Handle("PUT /api/tax-profiles/{jurisdiction}", applyCsrfAndAuth(profileHandler.HandleUpdateTaxProfile))

	apiRouter.Handle("GET /api/reports/dashboard", applyCsrfAndAuth(reportHandler.HandleGetDashboardSummary))
	apiRouter.Handle("GET /api/reports/tax-obligations", applyCsrfAndAuth(reportHandler.HandleGetTaxObligations))

	apiRouter.Handle("GET /api/user/has-data", applyCsrfAndAuth(userHandler.HandleCheckUserData))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "TermTracker Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
