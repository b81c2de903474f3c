package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-authform"
	"github.com/goliatone/go-authform/activitymap"
	"github.com/goliatone/go-authform/banking"
	"github.com/goliatone/go-authform/cmd/horizon/config"
	"github.com/goliatone/go-authform/dashboard"
	"github.com/goliatone/go-authform/identity"
	"github.com/goliatone/go-authform/middleware/formguard"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

//go:embed views
var viewsFS embed.FS

type App struct {
	config  *gconfig.Container[*config.BaseConfig]
	bunDB   *bun.DB
	service *identity.Service
	links   *banking.Client
	srv     router.Server[*fiber.App]
	logger  *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	opts, err := ParseOptions(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("horizon"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	opts.Apply(cfg.Raw())
	if err := cfg.Raw().Validate(); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().GetApp().GetDebug() {
		masked := *app.Config()
		masked.Auth.SigningKey = "****"
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(masked))
		fmt.Println("============")
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithServices(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	Routes(app)

	addr := app.Config().GetApp().GetAddr()
	app.GetLogger("app").Info("serving", "addr", addr)
	go func() {
		if err := app.srv.Serve(addr); err != nil {
			app.GetLogger("app").Error("server stopped", "error", err)
		}
	}()

	sig := WaitExitSignal()
	app.GetLogger("app").Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := app.srv.Shutdown(shutdownCtx); err != nil {
		app.GetLogger("app").Error("shutdown server", "error", err)
	}

	if err := app.bunDB.Close(); err != nil {
		app.GetLogger("app").Error("close database", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.Config().GetPersistence()

	sqldb, err := sql.Open(sqliteshim.ShimName, pcfg.GetDSN())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "open database")
	}

	persistence.RegisterModel((*identity.User)(nil))

	client, err := persistence.New(pcfg, sqldb, sqlitedialect.New())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "create persistence client")
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(identity.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("identity/data/sql/migrations"),
	)

	if err := client.Migrate(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "run migrations")
	}

	app.bunDB = client.DB()
	return nil
}

func WithServices(ctx context.Context, app *App) error {
	acfg := app.Config().GetAuth()

	tokens := identity.NewTokenService(
		[]byte(acfg.GetSigningKey()),
		acfg.GetTokenExpiration(),
		acfg.GetIssuer(),
		app.GetLogger("tokens"),
	)

	app.service = identity.NewService(
		identity.NewRepositoryManager(app.bunDB),
		tokens,
		identity.WithServiceLogger(app.GetLogger("identity")),
		identity.WithHashidIDs(acfg.GetHashidIDs()),
	)

	app.links = banking.NewClient(ctx, app.Config().GetBanking(),
		banking.WithClientLogger(app.GetLogger("banking")),
	)

	return nil
}

func WithHTTPServer(_ context.Context, app *App) error {
	templates, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return fmt.Errorf("unable to scope embedded templates: %w", err)
	}

	engine := django.NewFileSystem(http.FS(templates), ".html")
	engine.Reload(app.Config().GetApp().GetDebug())

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:           app.Config().GetApp().GetName(),
			UnescapePath:      true,
			PassLocalsToViews: true,
			ReadTimeout:       10 * time.Second,
			Views:             engine,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))
	srv.Router().Use(mflash.New(mflash.ConfigDefault))
	srv.Router().Use(formguard.New(formguard.Config{
		SecureKey: formguard.DeriveKey(app.Config().GetAuth().GetSigningKey()),
	}))

	app.srv = srv
	return nil
}

func Routes(app *App) {
	r := app.srv.Router()
	acfg := app.Config().GetAuth()
	debug := app.Config().GetApp().GetDebug()

	activityLogger := app.GetLogger("activity")
	sink := activitymap.Sink(func(_ context.Context, record activitymap.Normalized) error {
		activityLogger.Info("auth form activity",
			"actor", record.ActorID,
			"verb", record.Verb,
			"object", record.ObjectID,
			"metadata", record.Metadata,
		)
		return nil
	}, activitymap.WithErrorMessages(debug))

	authform.RegisterAuthRoutes(r,
		authform.WithAccountService(app.service),
		authform.WithLinkTokenProvider(app.links),
		authform.WithControllerConfig(acfg),
		authform.WithControllerLogger(app.GetLogger("auth")),
		authform.WithControllerActivitySink(sink),
		authform.WithControllerDebug(debug),
	)

	dashboard.RegisterHomeRoutes(r,
		dashboard.WithAccountService(app.service),
		dashboard.WithConfig(acfg),
		dashboard.WithLogger(app.GetLogger("dashboard")),
	)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
