package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-ticket-finder/internal/config"
	"github.com/iliyamo/event-ticket-finder/internal/handler"
	"github.com/iliyamo/event-ticket-finder/internal/middleware"
	"github.com/iliyamo/event-ticket-finder/internal/queue"
	"github.com/iliyamo/event-ticket-finder/internal/repository"
	"github.com/iliyamo/event-ticket-finder/internal/router"
	"github.com/iliyamo/event-ticket-finder/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run holds the deferred cleanups; main only reports its error.
func run() error {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var onCreate repository.EventListener
	if cfg.PublishEvents {
		pub := service.NewListingPublisher(cfg.AMQPURL)
		defer pub.Close()
		onCreate = pub.Listener()
	}
	if cfg.ConsumeEvents {
		go func() {
			if err := queue.StartListingConsumer(ctx, cfg.AMQPURL, cfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("listing consumer stopped: %v", err)
			}
		}()
	}

	repo, err := repository.NewWorld(ctx, cfg.World.Size, cfg.World.EventCount, cfg.World.Seed, onCreate)
	if err != nil {
		return fmt.Errorf("seed world: %w", err)
	}
	log.Printf("world ready: %d events in [-%d, %d]", repo.Count(), repo.Size(), repo.Size())

	rdb := config.NewRedisClient() // nil when Redis is unavailable
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewEventHandler(repo), limiter, cache)
	router.RegisterAdmin(e, handler.NewAdminHandler(repo), cfg.JWTSecret, limiter)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
