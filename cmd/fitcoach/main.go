package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "fitcoach/internal/adapter/http"
	"fitcoach/internal/adapter/memory"
	"fitcoach/internal/adapter/postgres"
	"fitcoach/internal/adapter/sqlite"
	"fitcoach/internal/app"
	"fitcoach/internal/config"
	"fitcoach/internal/domain"
	"fitcoach/internal/logging"
	"fitcoach/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// store is what every backend provides.
type store interface {
	domain.WeightRepository
	domain.ProfileRepository
	domain.CalculatorSessionRepository
	domain.UserRepository
	domain.ExerciseRepository
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("fitcoach exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	m := metrics.NewManager("fitcoach")

	db, sessions, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	log.Info("store opened", "store", cfg.Store)

	ids := app.ContextIdentity{}
	weightSvc := app.NewWeightService(ids, db, db).WithRecorder(m)
	authSvc := app.NewAuthService(db, sessions, cfg.SessionTTL)
	svc := adapthttp.Services{
		Weight:     weightSvc,
		Calculator: app.NewCalculatorService(ids, db, db, weightSvc).WithRecorder(m),
		Profile:    app.NewProfileService(ids, db),
		Charts:     app.NewChartsService(ids, db),
		Accounts:   app.NewAccountService(ids, db, db, cfg.LookupCacheTTL, m),
		Auth:       authSvc,
	}

	if cfg.BootstrapAdminUser != "" {
		u, err := authSvc.CreateInitialUser(ctx, cfg.BootstrapAdminUser, cfg.BootstrapAdminPassword)
		switch {
		case errors.Is(err, app.ErrUsersExist):
			log.Debug("bootstrap admin skipped, users exist")
		case err != nil:
			return fmt.Errorf("bootstrap admin: %w", err)
		default:
			log.Info("bootstrap admin created", "username", u.Username)
		}
	}

	opts := []adapthttp.Option{
		adapthttp.WithLogger(log),
		adapthttp.WithMetrics(m),
		adapthttp.WithHealthCheck(db.Ping),
	}
	if cfg.OIDC.Enabled() {
		provider, err := oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		if err != nil {
			return fmt.Errorf("oidc provider: %w", err)
		}
		opts = append(opts, adapthttp.WithOIDC(adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: &oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret,
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		}))
		log.Info("sso enabled", "issuer", cfg.OIDC.Issuer)
	}

	go authSvc.RunSessionSweeper(ctx, cfg.SessionSweepInterval)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(svc, opts...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (store, domain.SessionRepository, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		return db, postgres.NewSessionRepo(db), nil
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		return db, sqlite.NewSessionRepo(db), nil
	default:
		db := memory.New()
		return db, db.NewSessionRepo(), nil
	}
}
