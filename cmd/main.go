// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/booking-admin/internal/cache"
	"github.com/Shivanand-hulikatti/booking-admin/internal/config"
	"github.com/Shivanand-hulikatti/booking-admin/internal/dashboard"
	"github.com/Shivanand-hulikatti/booking-admin/internal/database"
	"github.com/Shivanand-hulikatti/booking-admin/internal/handler"
	"github.com/Shivanand-hulikatti/booking-admin/internal/logger"
	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"github.com/Shivanand-hulikatti/booking-admin/internal/notify"
	"github.com/Shivanand-hulikatti/booking-admin/internal/platform"
	"github.com/Shivanand-hulikatti/booking-admin/internal/provision"
	"github.com/Shivanand-hulikatti/booking-admin/internal/repository"
	"github.com/Shivanand-hulikatti/booking-admin/internal/service"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Platform clients ───────────────────────────────────────────────
	client, err := platform.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		log.Fatal("platform client", zap.Error(err))
	}

	// ── 2. Repositories ───────────────────────────────────────────────────
	bookingRepo := repository.NewBookingRepository(client)
	profileRepo := repository.NewProfileRepository(client)
	feedbackRepo := repository.NewFeedbackRepository(client)
	bucketRepo := repository.NewBucketRepository(client)

	var identities service.EmailLookup
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("database", zap.Error(err))
		}
		defer pool.Close()
		log.Info("identity lookups use direct database queries")
		identities = repository.NewSQLIdentityRepository(pool)
	} else {
		// RPC failures stick to the client that made them, so identity
		// lookups get a client of their own.
		rpcClient, err := platform.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			log.Fatal("platform rpc client", zap.Error(err))
		}
		log.Info("identity lookups use rpc", zap.String("function", cfg.IdentityRPC))
		identities = repository.NewRPCIdentityRepository(rpcClient, cfg.IdentityRPC)
	}

	// ── 3. Reconciliation chain ───────────────────────────────────────────
	var profileSource service.EmailSource = service.ProfileStoreSource{Profiles: profileRepo}
	var identitySource service.EmailSource = service.IdentityStoreSource{Identities: identities}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("email cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			emailCache := cache.NewEmailCache(rdb, cfg.EmailCacheTTL)
			profileSource = service.CachedSource{Source: profileSource, Cache: emailCache, Log: log}
			identitySource = service.CachedSource{Source: identitySource, Cache: emailCache, Log: log}
			log.Info("email cache enabled", zap.String("addr", cfg.RedisAddr))
		}
	}

	reconciler := service.NewReconciler(log,
		[]service.EmailSource{service.JoinedProfileSource{}, profileSource, identitySource},
		service.WithConcurrency(cfg.ReconcileConcurrency),
		service.WithLookupTimeout(cfg.ReconcileLookupTimeout),
	)

	// ── 4. Dashboard ──────────────────────────────────────────────────────
	bookingSvc := service.NewBookingService(bookingRepo, reconciler, log)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, log)
	toaster := notify.NewToaster(cfg.ToastLimit, log)
	controller := dashboard.NewController(bookingSvc, feedbackSvc, toaster, log)
	go controller.Load(ctx)

	// ── 5. Storage bucket ─────────────────────────────────────────────────
	provisioner := provision.NewProvisioner(bucketRepo, model.BucketSpec{
		Name:             cfg.BucketName,
		Public:           cfg.BucketPublic,
		FileSizeLimit:    cfg.BucketSizeLimit,
		AllowedMimeTypes: cfg.MimeTypes(),
	}, log)
	if cfg.EnsureBucketOnStart {
		if _, err := provisioner.Ensure(ctx); err != nil {
			log.Error("ensure bucket on start", zap.String("bucket", cfg.BucketName), zap.Error(err))
		}
	}

	// ── 6. Router ─────────────────────────────────────────────────────────
	router := handler.NewRouter(handler.RouterConfig{
		Dashboard:      handler.NewDashboardHandler(controller, toaster, log),
		Bucket:         handler.NewBucketHandler(provisioner, log),
		AllowedOrigins: cfg.Origins(),
		RateLimiter:    handler.NewRateLimiter(cfg.MaxRequestsPerMin, log),
		Log:            log,
	})

	// ── 7. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Sugar().Fatalf("graceful shutdown failed: %v", err)
	}
	log.Info("server stopped")
}
