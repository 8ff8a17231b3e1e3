package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/absensi-pegawai/portal/internal/api"
	"github.com/absensi-pegawai/portal/internal/api/handler"
	"github.com/absensi-pegawai/portal/internal/api/middleware"
	"github.com/absensi-pegawai/portal/internal/core/service"
	redisdb "github.com/absensi-pegawai/portal/internal/infrastructure/db/redis"
	"github.com/absensi-pegawai/portal/internal/infrastructure/queue"
	"github.com/absensi-pegawai/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(context.Background()); cerr != nil {
			log.Error().Err(cerr).Msg("close credential store failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("close redis failed")
		}
	}()

	auditCtx, cancelAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Auth.AuditWorkers, store, logger.Component("audit"))
	dispatcher.Start(auditCtx)
	defer func() {
		cancelAudit()
		dispatcher.Wait()
	}()

	e := api.NewRouter(api.Dependencies{
		Auth:     service.NewAuthService(store, store, cfg.Auth.LookupTimeout, logger.Component("auth")),
		Sessions: redisdb.NewSessionStore(rdb),
		Attempts: dispatcher,
		Health: map[string]handler.Pinger{
			cfg.StoreDriver: store,
			"redis":         handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure || cfg.IsProduction(),
			Domain:     cfg.Session.Domain,
		},
		Log: logger.Component("http"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
