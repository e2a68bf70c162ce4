package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"paradise-vista/configs"
	"paradise-vista/internal/cache"
	"paradise-vista/internal/database"
	"paradise-vista/internal/handlers"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/metrics"
	"paradise-vista/internal/services"
	"paradise-vista/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Paradise Vista do Atlântico API
// @version 1.0
// @description Backend of the Paradise Vista do Atlântico hotel site: visitor analytics, birthday reservations and content management
// @termsOfService http://swagger.io/terms/

// @contact.name Paradise Vista do Atlântico
// @contact.email reservas@paradisevista.com.br

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default configuration")
	}

	// Load configuration
	if err := configs.LoadConfig(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	cfg := configs.AppConfig

	logger.Init(cfg.AppEnv)
	metrics.Register()

	// Initialize database and cache
	db := database.GetDBManager()
	cacheMgr := cache.GetCacheManager()

	store, err := storage.NewStorage(storage.ConfigFrom(cfg))
	if err != nil {
		logger.Fatal("failed to initialize storage", "type", cfg.StorageType, "error", err)
	}

	// Initialize services
	visitRepo := database.NewVisitRepository(db)
	reservationRepo := database.NewReservationRepository(db)

	geo := services.NewIPAPIClient(cfg.GeoAPIURL, cfg.GeoTimeout)
	emailService := services.NewSMTPEmailService(cfg)

	deps := handlers.Deps{
		DB:           db,
		Cache:        cacheMgr,
		Storage:      store,
		Tracker:      services.NewVisitorTracker(visitRepo, geo, cacheMgr),
		Email:        emailService,
		Reservations: services.NewReservationService(reservationRepo, emailService, cacheMgr, cfg.Location()),
		Settings:     services.NewSettingsService(database.NewSectionRepository(db), cacheMgr, cfg.CacheTTL),
		Analytics:    services.NewAnalyticsService(visitRepo, reservationRepo, cacheMgr, cfg.CacheTTL),

		RateLimitPerHour: cfg.RateLimitPerHour,
		UploadBuckets:    cfg.UploadBuckets,
		UploadMaxSize:    cfg.UploadMaxSize,
	}

	if cfg.EnableWebSocket {
		deps.WebSocket = handlers.NewWebSocketHandler()
		go deps.WebSocket.RunHub()
		cacheMgr.Subscribe(deps.WebSocket.BroadcastUpdate)
	}

	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: handlers.NewRouter(deps),
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr, "env", cfg.AppEnv)
		logger.Info("swagger docs available", "url", "http://localhost"+server.Addr+"/swagger/index.html")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Let in-flight confirmation emails finish before closing the stores.
	deps.Reservations.Wait()

	if err := cacheMgr.Close(); err != nil {
		logger.Warn("failed to close cache", "error", err)
	}
	if err := db.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
	logger.Info("server stopped")
}
