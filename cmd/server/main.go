package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/config"
	"github.com/iliyamo/museum-desk/internal/database"
	"github.com/iliyamo/museum-desk/internal/handler"
	"github.com/iliyamo/museum-desk/internal/logger"
	"github.com/iliyamo/museum-desk/internal/middleware"
	"github.com/iliyamo/museum-desk/internal/queue"
	"github.com/iliyamo/museum-desk/internal/repository"
	"github.com/iliyamo/museum-desk/internal/router"
	"github.com/iliyamo/museum-desk/internal/service"
	"github.com/iliyamo/museum-desk/internal/session"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.Database(), database.Up); err != nil {
			log.Fatal("apply migrations", zap.Error(err))
		}
	}
	db, err := database.Open(cfg.Database())
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: sessions fall back to MySQL, rate limiting and
	// response caching switch off.
	rdb := config.NewRedisClient()
	var store session.Store
	if rdb != nil {
		defer rdb.Close()
		store = session.NewRedisStore(rdb, "")
		log.Info("sessions in redis")
	} else {
		sqlStore := session.NewSQLStore(db)
		store = sqlStore
		go purgeSessions(ctx, sqlStore, log)
		log.Warn("redis unavailable; sessions in mysql, rate limit and cache disabled")
	}

	var events service.Publisher = queue.Nop{}
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL, log)
	}

	deps := service.Deps{
		DB:       db,
		Activity: service.NewActivityLogger(repository.NewActivityRepo(db), log, time.Now),
		Events:   events,
		Log:      log,
		Now:      time.Now,
	}
	accounts := service.NewAccountService(deps, cfg.BcryptCost)
	memberships := service.NewMembershipService(deps)
	inventory := service.NewInventoryService(deps)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))

	guards := router.Guards{
		Session:   middleware.SessionAuth(cfg.SessionSecret, store, log),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}
	sessions := handler.SessionSettings{Secret: cfg.SessionSecret, TTL: cfg.SessionTTL, CookieSecure: cfg.CookieSecure}

	router.RegisterRoutes(e, db, rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(sessions, accounts, memberships, inventory, store, log), guards)
	router.RegisterAdmin(e, handler.NewAdminHandler(accounts, service.NewDepartmentService(deps), log), guards)
	router.RegisterEvents(e, handler.NewEventHandler(service.NewEventService(deps), service.NewTicketService(deps), log), guards)
	router.RegisterShop(e, handler.NewShopHandler(inventory, service.NewSalesService(deps), log), guards)
	router.RegisterMembership(e, handler.NewMembershipHandler(memberships, log), guards)
	router.RegisterReports(e, handler.NewReportHandler(service.NewReportService(deps), log), guards)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

// purgeSessions removes expired rows from the MySQL session table.
func purgeSessions(ctx context.Context, store *session.SQLStore, log *zap.Logger) {
	t := time.NewTicker(15 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.Purge(ctx)
			if err != nil {
				log.Warn("purge sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("purged sessions", zap.Int64("rows", n))
			}
		}
	}
}
