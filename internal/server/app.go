// Package server initializes and runs the Recipe Box server: configuration,
// database and migrations, the session store backend, services, and the HTTP
// endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/httpapi"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
	"github.com/dmitrijs2005/recipebox/internal/server/sessions"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions sessions.Store
	httpAPI  *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := sessions.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("session store init error: %w", err)
	}

	us := services.NewUserService(db, rm, store)
	is := services.NewIngredientService(db, rm)
	rs := services.NewRecipeService(db, rm)

	api := httpapi.NewServer(cfg, logger, us, is, rs)

	return &App{config: cfg, logger: logger, db: db, sessions: store, httpAPI: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app",
		"addr", app.config.Address,
		"session_backend", app.config.SessionBackend,
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpAPI.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server error", "error", err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.sessions.Close(); err != nil {
		app.logger.Error(ctx, "session store close error", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
