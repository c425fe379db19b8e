package http

import (
	"net/http"

	"github.com/go-api-employees/internal/application/auth"
	"github.com/go-api-employees/internal/application/employee"
	"github.com/go-api-employees/internal/application/session"
	"github.com/go-api-employees/internal/application/user"
	"github.com/go-api-employees/internal/config"
	jwtinfra "github.com/go-api-employees/internal/infrastructure/jwt"
	"github.com/go-api-employees/internal/transport/http/handler"
	appmiddleware "github.com/go-api-employees/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	SessionRepo SessionRepository
	ObjectStore ObjectStore
	Cache       RowCache
	Parser      Parser
	Mailer      Mailer
	JWTProvider *jwtinfra.Provider
	// RateLimiter guards the public credential endpoints. NewRouter creates
	// one when nil; the caller owns stopping it.
	RateLimiter *appmiddleware.RateLimiter
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	sensitiveRL := deps.RateLimiter
	if sensitiveRL == nil {
		// 5 requests/second, burst of 10.
		sensitiveRL = appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	}

	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo: deps.SessionRepo,
		UserRepo:    deps.UserRepo,
		JWTProvider: deps.JWTProvider,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo: deps.UserRepo,
		Mailer:   deps.Mailer,
		BaseURL:  cfg.AppBaseURL,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:    deps.UserRepo,
		ObjectStore: deps.ObjectStore,
	})
	employeeSvc := employee.NewService(employee.ServiceDeps{
		ObjectStore: deps.ObjectStore,
		Parser:      deps.Parser,
		Cache:       deps.Cache,
		TTL:         cfg.EmployeeCacheTTL,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, cfg.ExposeActivationToken)
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	employeeH := handler.NewEmployeeHandler(employeeSvc)

	authMw := appmiddleware.Auth(deps.JWTProvider, sessionSvc)

	r.Get("/health-check/{action}", healthH.Ping)

	// Public routes
	r.With(sensitiveRL.Limit).Post("/register", authH.Register)
	r.With(sensitiveRL.Limit).Post("/login", sessionH.Login)
	r.With(sensitiveRL.Limit).Post("/activate/resend", authH.ResendActivation)
	r.Get("/activate/{token}", authH.Activate)

	// Bearer-protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Post("/logout", sessionH.Logout)

		r.Get("/user", userH.Get)
		r.Put("/user/update", userH.Update)
		r.Post("/user/upload", userH.UploadAvatar)
		r.Post("/user/password", userH.ChangePassword)

		r.Post("/upload", employeeH.Upload)
		r.Get("/employees", employeeH.List)
	})

	return r
}
