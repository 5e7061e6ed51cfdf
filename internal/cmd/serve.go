package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/salmannsharif/User-Profile-Manager/internal/api"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/password"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/service"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/token"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/db/mongo"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/db/postgres"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/db/redis"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/http/handlers"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/queue"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/report"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/storage"
	"github.com/salmannsharif/User-Profile-Manager/internal/pkg/config"
	"github.com/salmannsharif/User-Profile-Manager/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

// stores bundles the repositories for the configured driver.
type stores struct {
	profiles    ports.ProfileRepository
	credentials ports.CredentialRepository
	checker     handlers.Checker
	close       func()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("connected to postgres")
		return &stores{
			profiles:    postgres.NewProfileRepository(db),
			credentials: postgres.NewCredentialRepository(db),
			checker:     postgres.NewPinger(db),
			close:       func() { _ = db.Close() },
		}, nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &stores{
			profiles:    mongo.NewProfileRepository(db),
			credentials: mongo.NewCredentialRepository(db),
			checker:     mongo.NewPinger(db),
			close:       func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}
}

func openImageStore(ctx context.Context, cfg *config.Config) (ports.ImageStore, error) {
	if cfg.Profiles.ImageStore != config.ImageStoreS3 {
		return storage.NewInlineStore(), nil
	}
	return storage.NewS3Store(ctx, storage.S3Options{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	})
}

// bodyLimit leaves a megabyte of room for the multipart envelope and
// the JSON part around the largest accepted image.
func bodyLimit(maxImageBytes int64) string {
	return fmt.Sprintf("%dK", (maxImageBytes+1<<20)/1024)
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "profiled",
	})

	key, err := token.LoadSigningKey(cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("JWT_SECRET: %w", err)
	}
	tokens, err := token.NewService(key, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	scheme, err := password.ParseScheme(cfg.Auth.HashScheme)
	if err != nil {
		return err
	}
	if scheme.Insecure() {
		log.Warn().Str("scheme", string(scheme)).Msg("password scheme is reversible; use only for migrating legacy data")
	}
	hasher, err := password.NewHasher(scheme, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()
	checkers := []handlers.Checker{st.checker}

	var authOpts []service.AuthOption
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		authOpts = append(authOpts, service.WithLoginLimiter(
			redis.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)))
		checkers = append(checkers, redis.NewPinger(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	images, err := openImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Cleanup keeps running while in-flight requests drain.
	workCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()
	cleaner := queue.NewDispatcher(cfg.Profiles.CleanupWorkers, images, log)
	cleaner.Start(workCtx)

	verifier := service.NewCredentialVerifier(st.credentials, hasher)
	authSvc := service.NewAuthService(st.credentials, verifier, tokens, hasher, log, authOpts...)
	profileSvc := service.NewProfileService(st.profiles, images, hasher, log,
		service.WithImageCleaner(cleaner),
		service.WithMaxImageBytes(cfg.Profiles.MaxImageBytes),
	)

	if cfg.Auth.AdminPassword != "" {
		if err := authSvc.SeedAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	e, err := api.NewRouter(api.Deps{
		Log:       log,
		Auth:      authSvc,
		Tokens:    tokens,
		Profiles:  profileSvc,
		Renderer:  report.NewPDFRenderer(),
		Checkers:  checkers,
		BodyLimit: bodyLimit(cfg.Profiles.MaxImageBytes),
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
