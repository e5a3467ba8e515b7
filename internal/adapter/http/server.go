package adapthttp

import (
	"context"
	"log/slog"
	"net/http"

	"fitcoach/internal/app"
	"fitcoach/internal/domain"
	"fitcoach/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the single sign-on provider. SSO routes answer 404 unless Enabled.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Services groups the application services the server routes to.
type Services struct {
	Weight     *app.WeightService
	Calculator *app.CalculatorService
	Profile    *app.ProfileService
	Charts     *app.ChartsService
	Accounts   *app.AccountService
	Auth       *app.AuthService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weight   *app.WeightService
	calc     *app.CalculatorService
	profile  *app.ProfileService
	charts   *app.ChartsService
	accounts *app.AccountService
	authSvc  *app.AuthService

	oidcConfig OIDCConfig
	metrics    *metrics.Manager
	log        *slog.Logger
	health     func(context.Context) error

	// testUser replaces authentication when set.
	testUser *domain.User
}

// Option configures a Server.
type Option func(*Server)

// WithOIDC enables the SSO routes.
func WithOIDC(cfg OIDCConfig) Option {
	return func(s *Server) { s.oidcConfig = cfg }
}

// WithMetrics records request metrics and serves /metrics.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithHealthCheck makes /api/health report the result of check.
func WithHealthCheck(check func(context.Context) error) Option {
	return func(s *Server) { s.health = check }
}

// WithoutAuth authenticates every request as u. Intended for tests.
func WithoutAuth(u *domain.User) Option {
	return func(s *Server) { s.testUser = u }
}

// New creates a Server wired to the given application services.
func New(svc Services, opts ...Option) *Server {
	s := &Server{
		weight:   svc.Weight,
		calc:     svc.Calculator,
		profile:  svc.Profile,
		charts:   svc.Charts,
		accounts: svc.Accounts,
		authSvc:  svc.Auth,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	public := http.NewServeMux()
	public.HandleFunc("/health", s.handleHealth)
	public.HandleFunc("/auth/login", s.handleLogin)
	public.HandleFunc("/auth/logout", s.handleLogout)
	public.HandleFunc("/auth/config", s.handleConfig)
	public.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	public.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	api := http.NewServeMux()
	api.HandleFunc("/weight/today", s.handleWeightToday)
	api.HandleFunc("/weight/logged", s.handleWeightLogged)
	api.HandleFunc("/weight/recent", s.handleWeightRecent)

	api.HandleFunc("/calculators/logged", s.handleCalculatorLogged)
	api.HandleFunc("/calculators/sessions", s.handleCalculatorSessions)
	api.HandleFunc("/calculators/bmi", s.handleCalculatorBMI)

	api.HandleFunc("/profile", s.handleProfile)
	api.HandleFunc("/charts/daily", s.handleChartsDaily)

	api.HandleFunc("/me", s.handleMe)
	api.HandleFunc("/exercises", s.handleExercises)
	api.HandleFunc("/trainer/clients", s.handleTrainerClients)
	api.HandleFunc("/admin/accounts", s.handleAdminAccounts)

	public.Handle("/", s.authMiddleware(api))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", public))
	if s.metrics != nil {
		root.Handle("/metrics", s.metrics.Handler())
	}

	return s.requestIDMiddleware(s.loggingMiddleware(withNoCache(root)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.log.ErrorContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
