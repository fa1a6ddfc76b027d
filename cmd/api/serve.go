package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	authmw "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/middleware"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/bootstrap"
	cronjob "github.com/ctrl-alt-vibe/vibe-backend/internal/cron"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/storage/postgres"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/storage/redis"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")
		return runServer(migrate)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", false, "apply pending migrations before starting")
}

func runServer(migrateFirst bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	bootstrap.SetGinMode(cfg.App.Environment)
	if err := validation.Register(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrateFirst {
		if err := migrateUp(cfg); err != nil {
			return err
		}
	}

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	gdb, err := postgres.NewGorm(db, cfg.App.LogLevel == "debug")
	if err != nil {
		return err
	}

	rdb, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var verifier authmw.TokenVerifier
	if cfg.Firebase.DevBypass {
		log.Warn().Msg("AUTH_DEV_BYPASS is on: X-User-Id is trusted without verification")
	} else {
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return err
		}
		verifier = client
	}
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set: vibe checks will return 503")
	}

	app := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:   cfg,
		DB:       db,
		Gorm:     gdb,
		Redis:    rdb,
		Verifier: verifier,
	})

	var scheduler *cronjob.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = cronjob.NewScheduler(app.Jobs...)
		if err := scheduler.Start(); err != nil {
			return err
		}
	}

	srv := bootstrap.NewServer(":"+cfg.Server.Port, app)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.App.Environment).Str("version", cfg.App.Version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn().Msg("cron jobs still running at shutdown")
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
