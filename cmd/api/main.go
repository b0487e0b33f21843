package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clearance-booking/internal/audit"
	"github.com/BruksfildServices01/clearance-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/clearance-booking/internal/db"
	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/infra/archive"
	"github.com/BruksfildServices01/clearance-booking/internal/infra/events"
	"github.com/BruksfildServices01/clearance-booking/internal/infra/payment"
	infraRepo "github.com/BruksfildServices01/clearance-booking/internal/infra/repository"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
	"github.com/BruksfildServices01/clearance-booking/internal/metrics"
	"github.com/BruksfildServices01/clearance-booking/internal/middleware"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
	"github.com/BruksfildServices01/clearance-booking/internal/routes"
	"github.com/BruksfildServices01/clearance-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/clearance-booking/internal/usecase/booking"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	log := logrus.WithField("service", "clearance-booking")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := dbpkg.NewDB(cfg)

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	userRepo := infraRepo.NewUserGormRepository(db)

	if created, err := userRepo.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("failed to seed admin account")
	} else if created {
		log.WithField("email", cfg.AdminEmail).Info("admin account created")
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	gateway, err := newGateway(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to configure payment gateway")
	}

	// ======================================================
	// LIFECYCLE STORE
	// ======================================================
	store := lifecycle.NewStore(
		lifecycle.WithClock(timezone.Clock(cfg.Timezone)),
		lifecycle.WithScheduler(lifecycle.DelayScheduler{Delay: cfg.NotifyDebounce}),
		lifecycle.WithGateway(gateway),
		lifecycle.WithQuoteValidity(cfg.QuoteValidity),
		lifecycle.WithSettleTimeout(cfg.PaymentTimeout),
		lifecycle.WithLogger(log),
	)

	loaded, err := infraRepo.Hydrate(ctx, bookingRepo, store)
	if err != nil {
		log.WithError(err).Fatal("failed to load bookings")
	}
	log.WithField("bookings", loaded).Info("booking store hydrated")

	store.Subscribe(infraRepo.Persister(bookingRepo, log))

	m := metrics.New()
	m.Seed(store.CountByStatus(ctx))
	store.Subscribe(m.Listener())

	if cfg.RedisEnabled() {
		redisClient := events.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable at startup")
		}
		store.Subscribe(events.NewPublisher(redisClient, cfg.RedisChannel, log).Listener())
		log.WithField("channel", cfg.RedisChannel).Info("change events publisher enabled")
	} else {
		log.Warn("REDIS_ADDR not set, change events disabled")
	}

	if cfg.ArchiveEnabled() {
		s3Client, err := archive.NewS3Client(ctx, archive.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		})
		if err != nil {
			log.WithError(err).Fatal("failed to configure archive")
		}
		store.Subscribe(archive.NewArchiver(s3Client, cfg.S3Bucket, log).Listener())
		log.WithField("bucket", cfg.S3Bucket).Info("closed booking archive enabled")
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	routes.RegisterRoutes(r, routes.Dependencies{
		DB:     db,
		Config: cfg,
		Bookings: ucBooking.Deps{
			Store:    store,
			Resolver: permission.NewResolver(permission.DefaultTable()),
			Audit:    auditDispatcher,
			Crew:     userRepo,
		},
		Metrics: m.Handler(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr()).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}

	auditDispatcher.Close()
}

func newGateway(cfg *config.Config, log *logrus.Entry) (booking.Gateway, error) {
	switch cfg.PaymentGateway {
	case config.GatewayMercadoPago:
		gw, err := payment.NewMercadoPagoGateway(cfg.MercadoPagoToken, log)
		if err != nil {
			return nil, err
		}
		return gw, nil
	case config.GatewaySimulated, "":
		log.Warn("using simulated payment gateway")
		return payment.NewSimulatedGateway(cfg.PaymentSettleDelay), nil
	default:
		return nil, errors.New("unknown PAYMENT_GATEWAY " + cfg.PaymentGateway)
	}
}
