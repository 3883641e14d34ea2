// Package server initializes and runs the regauth server: database and
// migrations, mail and membership collaborators, the service layer, and
// the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vkarpenko/regauth/internal/cache"
	"github.com/vkarpenko/regauth/internal/logging"
	"github.com/vkarpenko/regauth/internal/server/config"
	"github.com/vkarpenko/regauth/internal/server/email"
	"github.com/vkarpenko/regauth/internal/server/httpapi"
	"github.com/vkarpenko/regauth/internal/server/oauthx"
	"github.com/vkarpenko/regauth/internal/server/repositories/repomanager"
	"github.com/vkarpenko/regauth/internal/server/services"
	"github.com/vkarpenko/regauth/internal/server/teams"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager

	identity *services.IdentityService
	tokens   *services.TokenService
	rights   *services.RightsService
	router   *httpapi.Router
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	var notifier email.Notifier
	if cfg.SMTPAddr != "" {
		notifier = email.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom, cfg.PublicBaseURL)
	} else {
		notifier = email.NewLogNotifier(logger)
	}

	var checker teams.MembershipChecker = teams.NewProviderClient(cfg.ProviderAPIBaseURL)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		checker = teams.NewCachedChecker(checker, cache.NewCache(rdb), cfg.TeamCacheTTL, logger)
	}

	provider := oauthx.NewClient(
		cfg.OAuthClientID, cfg.OAuthClientSecret,
		cfg.OAuthAuthURL, cfg.OAuthTokenURL,
		cfg.ProviderAPIBaseURL,
	)

	identity := services.NewIdentityService(db, repos, notifier, logger)
	tokens := services.NewTokenService(db, repos, cfg.MaxTokensPerUser)
	rights := services.NewRightsService(checker)

	router := httpapi.NewRouter(identity, tokens, provider,
		[]byte(cfg.SessionSecret), cfg.SessionValidity, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		repos:    repos,
		identity: identity,
		tokens:   tokens,
		rights:   rights,
		router:   router,
	}, nil
}

// Rights exposes the rights resolver for components layered on top of this
// server, such as publish pipelines.
func (app *App) Rights() *services.RightsService {
	return app.rights
}

func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "running migrations")
	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.router.Setup(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return app.db.Close()
}
