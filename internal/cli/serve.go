package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/challenge-hub/backend/internal/client"
	"github.com/challenge-hub/backend/internal/config"
	"github.com/challenge-hub/backend/internal/db"
	"github.com/challenge-hub/backend/internal/handler"
	"github.com/challenge-hub/backend/internal/logging"
	"github.com/challenge-hub/backend/internal/service"
)

type ServeOptions struct {
	*RootOptions
	Addr    string
	Migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

Configuration comes from the environment and an optional .env file.

Example:
  challenge-hub serve --migrate
  challenge-hub serve --addr :9090 --log-format console`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address, overrides SERVER_ADDR")
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg := loadConfig(opts.RootOptions)
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}

	shutdownTimeout, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
	if err != nil {
		return fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT %q", cfg.Server.ShutdownTimeout)
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	store := &db.Postgres{Pool: pool}

	if opts.Migrate {
		if err := store.Migrate(ctx, db.MigrateUp); err != nil {
			return err
		}
	}

	svcs, err := buildServices(ctx, store, cfg)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.NewRouter(svcs, cfg.CORS),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildServices wires the repositories, the generator and the services.
// A missing generator key disables auto creation instead of failing.
func buildServices(ctx context.Context, store *db.Postgres, cfg config.Config) (handler.Services, error) {
	hasher, err := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return handler.Services{}, err
	}

	auth, err := service.NewAuthService(store, hasher, cfg.Auth)
	if err != nil {
		return handler.Services{}, err
	}

	var gen client.Generator
	g, err := client.NewGenerator(ctx, cfg.Generator)
	switch {
	case errors.Is(err, client.ErrNotConfigured):
		logging.Warn().Msg("GENERATOR_API_KEY is not set, auto creation is disabled")
	case err != nil:
		return handler.Services{}, fmt.Errorf("%w: %w", service.ErrMisconfigured, err)
	default:
		gen = g
		logging.Info().Str("provider", cfg.Generator.Provider).Msg("generator enabled")
	}

	return handler.Services{
		Auth:       auth,
		Users:      service.NewUserService(store, hasher, gen),
		Challenges: service.NewChallengeService(store, gen),
		Videos:     service.NewVideoService(store, gen),
	}, nil
}
