package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/database"
	"github.com/iliyamo/hotel-management/internal/handler"
	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/router"
	"github.com/iliyamo/hotel-management/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		async := service.NewAsyncPublisher(service.NewAMQPPublisher(cfg.AMQPURL), 256)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := async.Close(ctx); err != nil {
				log.Printf("events: unpublished backlog dropped: %v", err)
			}
		}()
		events = async
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unreachable; rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s %d %s err=%v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Printf("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Mount(e, router.NewHandlers(cfg, db, events), db, cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadAuthRateLimitConfig(), rdb))

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port                                // Address string with port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-cmd.Context().Done():
	}
	log.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
