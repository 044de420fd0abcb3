package main // Entry point package

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/seatmate/seatmate/internal/allocator"
	"github.com/seatmate/seatmate/internal/broker"
	"github.com/seatmate/seatmate/internal/config"
	"github.com/seatmate/seatmate/internal/database"
	"github.com/seatmate/seatmate/internal/handler"
	"github.com/seatmate/seatmate/internal/queue"
	"github.com/seatmate/seatmate/internal/repository"
	"github.com/seatmate/seatmate/internal/reset"
	"github.com/seatmate/seatmate/internal/router"
	"github.com/seatmate/seatmate/internal/scheduler"
	"github.com/seatmate/seatmate/internal/utils"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := buildStore(cfg)

	// The admin secret is hashed once at startup; only the hash travels
	// through the reset path.
	adminHash, err := utils.HashSecret(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	// Two broadcast sinks: the in-process broker feeds this instance's
	// SSE stream, the AMQP fanout exchange reaches every other process.
	// Outgoing envelopes carry this instance's ID so the consumer below
	// can drop the loopback copy.
	instanceID := uuid.NewString()
	bkr := broker.New()
	publisher := queue.NewPublisher(queue.BrokerURL())
	sinks := []reset.PublishFunc{
		func(_ context.Context, env queue.Envelope) error {
			bkr.Publish(env)
			return nil
		},
		func(ctx context.Context, env queue.Envelope) error {
			env.Origin = instanceID
			return publisher.Publish(ctx, env)
		},
	}

	coordinator := reset.NewCoordinator(store, adminHash, sinks...)
	alloc := allocator.New(store, cfg.TotalSeats)

	// Bridge events published by other instances into the local broker so
	// SSE subscribers see them too; this instance's own events are
	// filtered out because they were already delivered locally.
	go func() {
		bridge := queue.FilterOrigin(instanceID, bkr.Publish)
		if err := queue.StartConsumer(ctx, queue.BrokerURL(), bridge); err != nil && ctx.Err() == nil {
			log.Printf("queue: consumer stopped: %v", err)
		}
	}()

	if cfg.SchedulerOn {
		loc, err := time.LoadLocation(cfg.ResetTimezone)
		if err != nil {
			log.Printf("invalid RESET_TIMEZONE %q, using UTC: %v", cfg.ResetTimezone, err)
			loc = time.UTC
		}
		sched := scheduler.New(func(ctx context.Context) error {
			_, err := coordinator.ScheduledResetAll(ctx)
			return err
		}, loc, cfg.ResetHour)
		go sched.Run(ctx)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, claim rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	h := router.Handlers{
		Seats:     handler.NewSeatHandler(store, alloc, coordinator, sinks...),
		Admin:     handler.NewAdminHandler(coordinator, cfg.AdminPassword),
		Scheduled: handler.NewScheduledHandler(coordinator, cfg.ResetTimezone),
		Events:    handler.NewEventsHandler(bkr),
	}
	router.RegisterAll(e, h, rdb, config.LoadRateLimitConfig(), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s, seats=%d)", addr, cfg.Env, cfg.StoreBackend, cfg.TotalSeats)

	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// buildStore selects the seat store backend.  "memory" serves demos and
// tests, "off" makes every write fail loudly, and anything else is the
// MySQL store with migrations applied on startup.
func buildStore(cfg config.Config) repository.SeatStore {
	switch cfg.StoreBackend {
	case "memory":
		log.Printf("store: using in-memory backend")
		return repository.NewMemStore()
	case "off":
		log.Printf("store: disabled; all writes will fail")
		return repository.NewNoopStore()
	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		return repository.NewStore(db)
	}
}
