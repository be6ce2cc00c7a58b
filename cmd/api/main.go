package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/repo"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-barter-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-barter-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-barter-go")

	cfg, err := config.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("config: %v", err)
	}
	rules, err := barter.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("barter config: %v", err)
	}

	var store barter.Store
	var db *sqlx.DB
	switch cfg.StoreBackend {
	case "memory":
		sugar.Warn("using in-memory store; data is lost on restart")
		store = barter.NewMemoryStore()
	default:
		db, err = database.Connect(database.ConfigFromEnv())
		if err != nil {
			sugar.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		pg := repo.NewPostgresStore(db)
		ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = pg.EnsureTables(ensureCtx)
		cancel()
		if err != nil {
			sugar.Fatalf("ensure tables: %v", err)
		}
		store = pg
	}

	engine := barter.NewEngine(store, rules, barter.WithLogger(sugar.Named("barter")))
	seedAdmin(engine, cfg, sugar)

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenIssuer, cfg.TokenTTL)
	if err != nil {
		sugar.Fatalf("token service: %v", err)
	}
	if len(cfg.JWTSecret) == 0 {
		sugar.Warn("JWT_SECRET not set; tokens are invalidated on restart")
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := router.RegisterRoutes(sugar, barter.NewHandler(engine, tokens, sugar), tokens)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("service is running", "addr", cfg.Addr, "store", cfg.StoreBackend)

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	if db != nil {
		if err := db.PingContext(doneCtx); err != nil {
			sugar.Warnf("db ping on shutdown failed: %v", err)
		}
	}

	sugar.Info("goodbye")
}

func seedAdmin(engine *barter.Engine, cfg config.Config, sugar *zap.SugaredLogger) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		sugar.Info("ADMIN_USERNAME/ADMIN_PASSWORD not set; skipping admin seed")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := engine.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		sugar.Fatalf("seed admin: %v", err)
	}
}
