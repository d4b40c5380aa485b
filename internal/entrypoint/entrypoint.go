package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditRepo "github.com/mrlokans/library/internal/database/audit"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/tasks"
	"github.com/mrlokans/library/internal/validation"
)

// App holds the wired service and its background machinery.
type App struct {
	Router *gin.Engine

	db         *database.Database
	taskClient *tasks.Client
	cleanup    *scheduler.AuditCleanupScheduler
}

// Build opens the store and wires services, audit, tasks and the HTTP router.
func Build(cfg *config.Config, version string) (*App, error) {
	if cfg.Audit.Enabled {
		if err := scheduler.ValidateCronSchedule(cfg.Audit.CleanupSchedule); err != nil {
			return nil, fmt.Errorf("invalid AUDIT_CLEANUP_SCHEDULE %q: %w", cfg.Audit.CleanupSchedule, err)
		}
	}

	db, err := database.NewDatabase(cfg.DatabaseOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app := &App{db: db}

	exec := database.NewExecutor(db.DB)
	validator := validation.New()
	loans := services.NewLoanService(exec, validator)

	routerCfg := http_controllers.RouterConfig{
		Authors:            services.NewAuthorService(exec, validator),
		Books:              services.NewBookService(exec, validator),
		Students:           services.NewStudentService(exec, validator, loans),
		Loans:              loans,
		Fines:              services.NewFineService(exec, validator, loans),
		Database:           db,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Version:            version,
	}

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditRepo.NewRepository(db.DB))
		routerCfg.AuditRecorder = auditService
		routerCfg.AuditReader = auditService
	}

	// Initialize task queue if enabled
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		// Retention passes are the only queued work, so the task endpoints
		// are mounted only alongside the audit trail.
		var maintainer tasks.AuditMaintainer
		if auditService != nil {
			maintainer = auditService
		}
		app.taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, maintainer)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}

		if app.taskClient.HandlesAuditRetention() {
			routerCfg.TaskClient = app.taskClient
		}
		routerCfg.TaskStatus = app.taskClient
	}

	if auditService != nil {
		var enqueuer scheduler.TaskEnqueuer
		if routerCfg.TaskClient != nil {
			enqueuer = app.taskClient
		}
		app.cleanup = scheduler.NewAuditCleanupScheduler(
			cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays, enqueuer, auditService)
	}

	if cfg.RateLimit.Enabled {
		routerCfg.RateLimiter = http_controllers.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	app.Router = http_controllers.NewRouter(routerCfg)
	return app, nil
}

// Close releases the task queue and store connections.
func (a *App) Close() {
	if a.taskClient != nil {
		if err := a.taskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

// Serve runs the HTTP server, task workers and scheduler until ctx is
// cancelled or SIGINT/SIGTERM arrives, then shuts them down within the
// configured timeout.
func (a *App) Serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: a.Router,
	}

	g.Go(func() error {
		log.Printf("Starting server at %s", srv.Addr)
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	if a.taskClient != nil {
		g.Go(func() error {
			a.taskClient.Start(gctx)
			return nil
		})
	}

	if a.cleanup != nil {
		if err := a.cleanup.Start(gctx); err != nil {
			log.Printf("Audit cleanup scheduler disabled: %v", err)
		}
	}

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutdown Server, waiting %v before killing", timeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// Stop background work first so no job starts against a closing store
		if a.cleanup != nil {
			a.cleanup.Stop()
		}
		if a.taskClient != nil {
			a.taskClient.Stop(shutdownCtx)
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	log.Println("Server exiting")
	return err
}

func Run(cfg *config.Config, version string) error {
	log.Printf("Starting Library v%s", version)

	app, err := Build(cfg, version)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Serve(context.Background(), cfg)
}

// Migrate provisions the schema and exits.
func Migrate(cfg *config.Config) error {
	db, err := database.NewDatabase(cfg.DatabaseOptions())
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	defer db.Close()

	log.Printf("Schema is up to date (%s)", cfg.Database.Driver)
	return nil
}
