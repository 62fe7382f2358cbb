// Command server runs the back-office API.
//
// @title                       Back-office API
// @version                     1.0
// @description                 Operator authentication, roles and permissions.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gmeta/backoffice/internal/api"
	"github.com/gmeta/backoffice/internal/api/handler"
	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/service"
	mongodb "github.com/gmeta/backoffice/internal/infrastructure/db/mongo"
	"github.com/gmeta/backoffice/internal/infrastructure/db/postgres"
	redisdb "github.com/gmeta/backoffice/internal/infrastructure/db/redis"
	"github.com/gmeta/backoffice/internal/infrastructure/queue"
	"github.com/gmeta/backoffice/internal/infrastructure/storage"
	"github.com/gmeta/backoffice/internal/pkg/config"
	"github.com/gmeta/backoffice/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "backoffice",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	if err := postgres.Migrate(db.WithContext(ctx)); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	mongoClient, mdb, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "backoffice",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	// --- Audit trail ---
	auditRepo := mongodb.NewAuthEventRepository(mdb)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit indexes not created")
	}
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Repositories ---
	admins := postgres.NewAdminUserRepository(db)
	users := postgres.NewUserRepository(db)
	roles := postgres.NewRoleRepository(db)
	permissions := postgres.NewPermissionRepository(db)

	if err := service.NewBootstrap(admins, permissions, log).Run(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Password); err != nil {
		return err
	}

	// --- Sessions ---
	adminCache := redisdb.NewSessionCache(rdb, cfg.Redis.Prefix, domain.PrincipalAdmin)
	userCache := redisdb.NewSessionCache(rdb, cfg.Redis.Prefix, domain.PrincipalUser)
	adminIssuer := service.NewTokenIssuer(cfg.JWTSecret, adminCache, cfg.SessionTTL)
	userIssuer := service.NewTokenIssuer(cfg.JWTSecret, userCache, cfg.SessionTTL)

	// --- Uploads ---
	signer, err := storage.NewS3Signer(ctx, storage.S3Config{
		Bucket:        cfg.S3.Bucket,
		Region:        cfg.S3.Region,
		Endpoint:      cfg.S3.Endpoint,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		UsePathStyle:  cfg.S3.UsePathStyle,
		PublicBaseURL: cfg.S3.PublicBaseURL,
	})
	if err != nil {
		return err
	}

	adminService := service.NewAdminService(admins, roles, permissions, log)

	e := api.NewRouter(api.Deps{
		Log:       log,
		AdminGate: service.NewAuthenticator[*domain.AdminUser](domain.PrincipalAdmin, adminIssuer, adminCache, admins, log),
		UserGate:  service.NewAuthenticator[*domain.User](domain.PrincipalUser, userIssuer, userCache, users, log),
		AdminAuth: service.NewAuthService(admins, adminIssuer, adminService, dispatcher, log),
		UserAuth:  service.NewUserAuthService(users, userIssuer, dispatcher),
		Admin:     adminService,
		Upload:    service.NewUploadService(signer, cfg.UploadMaxSize),
		Common:    handler.NewCommonHandler(db, rdb, mdb, log),
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
