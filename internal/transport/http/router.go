package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goodspace/backend/internal/application/identity"
	"github.com/goodspace/backend/internal/application/verification"
	"github.com/goodspace/backend/internal/config"
	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/pkg/clock"
	"github.com/goodspace/backend/internal/transport/http/handler"
	appmiddleware "github.com/goodspace/backend/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps, clk clock.Clock) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	verificationSvc := verification.NewService(deps.Store, deps.Mailer, clk, cfg.VerificationCodeLength, cfg.VerificationTTL)
	identitySvc := identity.NewService(deps.Store, deps.TokenProvider, clk)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(verificationSvc, identitySvc)
	userH := handler.NewUserHandler(identitySvc)
	adminH := handler.NewAdminHandler(verificationSvc)

	authMw := appmiddleware.Auth(deps.TokenProvider)

	// Public routes.
	r.Get("/health", healthH.Ping)
	r.Post("/auth/email/code", authH.SendCode)
	r.Post("/auth/email/verify", authH.VerifyCode)
	r.Post("/auth/signup", authH.SignUp)
	r.Post("/auth/signin", authH.SignIn)

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Patch("/user/password", userH.UpdatePassword)
		r.Patch("/user/email", userH.UpdateEmail)

		// Admin-only routes.
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

			r.Delete("/admin/verifications/expired", adminH.PurgeExpiredVerifications)
		})
	})

	return r
}
