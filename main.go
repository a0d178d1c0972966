package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/auth"
	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/catalog"
	"github.com/MUHULILAMRI/Done-Fast/config"
	"github.com/MUHULILAMRI/Done-Fast/database"
	"github.com/MUHULILAMRI/Done-Fast/feedback"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/MUHULILAMRI/Done-Fast/routes"
	"github.com/MUHULILAMRI/Done-Fast/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	seed := flag.Bool("seed-services", false, "write the built-in catalog into the services table and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, cfg.App.Env)
	defer log.Sync() //nolint:errcheck

	log.Info("starting application", zap.String("name", cfg.App.Name), zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database, cfg.Log, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	if err := database.Migrate(db); err != nil {
		log.Fatal("auto-migrate failed", zap.Error(err))
	}

	hub := realtime.NewHub(log)
	var pub realtime.Publisher = hub

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, running single-instance", zap.Error(err))
			rdb = nil
		} else {
			broker := realtime.NewRedisBroker(rdb, hub, log)
			pub = broker
			go func() {
				if err := broker.Run(ctx); err != nil {
					log.Error("realtime broker stopped", zap.Error(err))
				}
			}()
		}
	}

	var provider catalog.Provider = catalog.Static{}
	var invalidator catalog.Invalidator
	if cfg.Catalog.Source == "remote" {
		provider = catalog.NewRemote(db, log)
		if rdb != nil {
			cached := catalog.NewCached(provider, rdb, cfg.Catalog.CacheTTL, log)
			provider, invalidator = cached, cached
		}
	}
	services := catalog.NewStore(db, pub, invalidator)

	count, err := services.Count(ctx)
	if err != nil {
		log.Fatal("failed to count services", zap.Error(err))
	}
	if count == 0 || *seed {
		n, err := catalog.Seed(ctx, services)
		if err != nil {
			log.Fatal("failed to seed services", zap.Error(err))
		}
		log.Info("seeded services", zap.Int("count", n))
		if *seed {
			return
		}
	}

	users := auth.NewUsers(db)
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, err := users.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}

	var blacklist auth.TokenBlacklist = auth.NewMemoryTokenBlacklist()
	if rdb != nil {
		blacklist = auth.NewRedisTokenBlacklist(rdb)
	}

	var verifier auth.Verifier
	if cfg.Firebase.GoogleSignInEnabled() {
		fv, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
		if err != nil {
			log.Fatal("failed to initialize firebase", zap.Error(err))
		}
		verifier = fv
	} else {
		log.Info("google sign-in disabled")
	}

	orders := cart.NewGormRepository(db, pub)
	adapter := cart.NewAdapter(orders, log)
	if !adapter.Probe(ctx) {
		log.Warn("carts will be kept on visitors' devices")
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.GinMiddleware(log), logger.Recovery(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, &routes.Deps{
		Config:    cfg,
		Log:       log,
		Catalog:   provider,
		Services:  services,
		Cart:      adapter,
		Orders:    orders,
		Feedback:  feedback.NewStore(db, pub),
		Users:     users,
		Tokens:    auth.NewTokenService(cfg.JWT),
		Blacklist: blacklist,
		Verifier:  verifier,
		Hub:       hub,
		Sessions:  session.NewStore(cfg.Session),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
