package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/luchocam/ridelima/internal/admin"
	"github.com/luchocam/ridelima/internal/auth"
	"github.com/luchocam/ridelima/internal/simulation"
	"github.com/luchocam/ridelima/internal/trips"
	"github.com/luchocam/ridelima/internal/vehicles"
	"github.com/luchocam/ridelima/pkg/common"
	"github.com/luchocam/ridelima/pkg/config"
	"github.com/luchocam/ridelima/pkg/logger"
	"github.com/luchocam/ridelima/pkg/middleware"
	ws "github.com/luchocam/ridelima/pkg/websocket"
)

const serviceName = "ridelima"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Stores and services. Everything lives in process memory; restarting
	// the server resets the demo to the seed fleet.
	vehicleRepo := vehicles.NewRepository(vehicles.SeedFleet())
	vehicleSvc := vehicles.NewService(vehicleRepo)

	tripRepo := trips.NewRepository()
	tripSvc := trips.NewService(tripRepo, vehicleSvc, trips.NewHubNotifier(hub))

	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Expiration)

	// Clients watching a trip join its room on demand
	hub.RegisterHandler("subscribe_trip", func(client *ws.Client, msg *ws.Message) {
		if msg.TripID != "" {
			hub.AddClientToTrip(client.ID, msg.TripID)
		}
	})
	hub.RegisterHandler("unsubscribe_trip", func(client *ws.Client, msg *ws.Message) {
		if msg.TripID != "" {
			hub.RemoveClientFromTrip(client.ID, msg.TripID)
		}
	})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", common.HealthCheck(serviceName, "1.0.0"))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	authHandler := auth.NewHandler(authSvc)

	// Public routes
	authHandler.RegisterRoutes(api)
	api.GET("/ws", ws.ServeWS(hub, cfg.Auth.JWTSecret))

	// Authenticated routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

	authHandler.RegisterProtectedRoutes(protected)
	vehicles.NewHandler(vehicleSvc).RegisterRoutes(protected)
	trips.NewHandler(tripSvc).RegisterRoutes(protected)
	trips.NewDriverHandler(tripSvc).RegisterRoutes(protected)
	admin.NewHandler(tripSvc, vehicleSvc).RegisterRoutes(protected)

	// Live map simulation
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Simulation.Enabled {
		sim := simulation.New(vehicleRepo, hub, time.Duration(cfg.Simulation.Interval)*time.Second)
		go sim.Run(ctx)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("service", serviceName),
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
