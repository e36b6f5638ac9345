package app

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/cakequest/landing-api/docs"
	"github.com/cakequest/landing-api/internal/cache"
	"github.com/cakequest/landing-api/internal/config"
	"github.com/cakequest/landing-api/internal/handlers/middleware"
	subhandler "github.com/cakequest/landing-api/internal/handlers/subscription"
	"github.com/cakequest/landing-api/internal/metrics"
	"github.com/cakequest/landing-api/internal/models"
	repocache "github.com/cakequest/landing-api/internal/repository/cache"
	"github.com/cakequest/landing-api/internal/repository/journal"
	"github.com/cakequest/landing-api/internal/repository/sheets"
	"github.com/cakequest/landing-api/internal/reporter"
	"github.com/cakequest/landing-api/internal/services/logger"
	"github.com/cakequest/landing-api/internal/services/subscription"
	"github.com/cakequest/landing-api/internal/web"
	pkglogger "github.com/cakequest/landing-api/pkg/logger"
)

const timeoutDuration = 5 * time.Second

type subscriberStore interface {
	ListEmails(ctx context.Context) ([]string, error)
	Append(ctx context.Context, sub models.Subscriber) error
}

type App struct {
	cfg config.Config
	log *log.Logger
}

type ServiceContainer struct {
	SubscriptionService *subscription.Service
	Store               subscriberStore
	Journal             *journal.Journal
	Reporter            *reporter.Reporter
	Metrics             *metrics.Metrics

	Router     *gin.Engine
	Srv        *http.Server
	Db         *sql.DB
	fileLogger *zap.Logger
}

func New(cfg config.Config, logger *log.Logger) *App {
	return &App{
		cfg: cfg,
		log: logger,
	}
}

func (a *App) Init() ServiceContainer {
	a.log.Println("Initializing application")

	db, err := CreateSqliteDb(a.cfg.DB.Dialect, a.cfg.DB.Source)
	if err != nil {
		a.log.Panic(err)
	}

	if err := InitSqliteDb(db, a.cfg.DB.Dialect, a.cfg.DB.MigrationsPath); err != nil {
		a.log.Panic(err)
	}

	router := gin.Default()
	router.HandleMethodNotAllowed = true

	apiServer := &http.Server{
		Addr:        a.cfg.Server.Address,
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	fileLogger, err := pkglogger.NewFileLogger(a.cfg.LogsPath)
	if err != nil {
		a.log.Panicf("failed to create file logger: %v", err)
	}

	httpLogClient := &http.Client{
		Transport: logger.NewRoundTripper(fileLogger),
	}

	sheetStore, err := sheets.NewStore(context.Background(), a.cfg.Google, httpLogClient, a.log)
	if err != nil {
		a.log.Panicf("failed to create sheet store: %v", err)
	}

	m := metrics.NewMetrics("cakequest", db, a.cfg.DB.Source)

	var store subscriberStore = sheets.NewBreakerStore("sheets", sheetStore)

	if a.cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: a.cfg.Redis.Addr})
		emailCache := cache.NewRedisClient[[]string](
			redisClient,
			a.log,
			time.Duration(a.cfg.Redis.TTLSeconds)*time.Second,
		)
		store = repocache.NewCachedStore(store, emailCache, a.log)
		a.log.Println("Subscriber-set cache enabled at", a.cfg.Redis.Addr)
	}

	subJournal := journal.New(db)
	subService := subscription.NewService(store, subJournal, a.log, m)
	statsReporter := reporter.New(store, subJournal, a.log, a.cfg.Stats.CronSpec, m)

	return ServiceContainer{
		SubscriptionService: subService,
		Store:               store,
		Journal:             subJournal,
		Reporter:            statsReporter,
		Metrics:             m,

		Router:     router,
		Srv:        apiServer,
		Db:         db,
		fileLogger: fileLogger,
	}
}

func (a *App) Start(srvContainer ServiceContainer) error {
	a.log.Println("Starting server on", a.cfg.Server.Address)

	defer func() {
		if err := srvContainer.Srv.Close(); err != nil {
			a.log.Println("Error stopping server:", err)
		}
	}()

	subHandler := subhandler.NewHandler(srvContainer.SubscriptionService)

	srvContainer.Router.Use(middleware.CORS(), srvContainer.Metrics.HTTPMiddleware())
	srvContainer.Router.NoMethod(subhandler.MethodNotAllowed)

	srvContainer.Router.GET("/", web.Index)
	api := srvContainer.Router.Group("/api")
	{
		api.POST("/collect-email", subHandler.CollectEmail)
	}
	srvContainer.Router.GET("/metrics", gin.WrapH(srvContainer.Metrics.Handler()))
	srvContainer.Router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))
	srvContainer.Router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	srvContainer.Reporter.Start(context.Background())

	if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (a *App) Stop(srvContainer ServiceContainer) error {
	a.log.Println("Stopping application…")

	srvContainer.Reporter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.log.Println("HTTP shutdown error:", err)
	} else {
		a.log.Println("HTTP server stopped")
	}

	if err := srvContainer.Db.Close(); err != nil {
		a.log.Println("DB close error:", err)
	} else {
		a.log.Println("Database closed")
	}

	if err := srvContainer.fileLogger.Sync(); err != nil {
		a.log.Println("File logger sync error:", err)
	}

	a.log.Println("Shutdown complete")
	return nil
}

func CreateSqliteDb(dialect, name string) (*sql.DB, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}
	connectionString := "file:" + name + "?cache=shared&mode=rwc"
	db, err := sql.Open(dialect, connectionString)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitSqliteDb(db *sql.DB, dialect, migrationPath string) error {
	log.Println("Initializing migrations:", migrationPath)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	if err := goose.Up(db, migrationPath); err != nil {
		return err
	}

	return nil
}
