package handlers

import (
	"context"
	"net/http"
	"time"

	_ "paradise-vista/docs"
	"paradise-vista/internal/cache"
	"paradise-vista/internal/database"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/middleware"
	"paradise-vista/internal/models"
	"paradise-vista/internal/services"
	"paradise-vista/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps carries everything the routes need. WebSocket may be nil to disable /ws.
type Deps struct {
	DB           *database.DBManager
	Cache        *cache.CacheManager
	Storage      storage.Storage
	Tracker      *services.VisitorTracker
	Email        *services.EmailService
	Reservations *services.ReservationService
	Settings     *services.SettingsService
	Analytics    *services.AnalyticsService
	WebSocket    *WebSocketHandler

	RateLimitPerHour int
	UploadBuckets    []string
	UploadMaxSize    int64
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())
	router.Use(middleware.CORS())
	router.Use(middleware.ValidationMiddleware())

	functions := NewFunctionsHandler(d.Tracker, d.Email)
	reservations := NewReservationHandler(d.Reservations, d.Settings)
	sections := NewSectionHandler(database.NewSectionRepository(d.DB), d.Settings, d.Cache)
	analytics := NewAnalyticsHandler(d.Analytics)
	uploads := NewUploadHandler(d.Storage, d.UploadBuckets, d.UploadMaxSize)

	rooms := NewContentHandler(database.NewRepository[models.Room](d.DB.WriteDB), "rooms")
	products := NewContentHandler(database.NewRepository[models.Product](d.DB.WriteDB), "products", "category")
	gallery := NewContentHandler(database.NewRepository[models.GalleryItem](d.DB.WriteDB), "gallery_items", "category").
		OnDelete(func(ctx context.Context, item *models.GalleryItem) {
			if item.StoragePath == "" || d.Storage == nil {
				return
			}
			if err := d.Storage.Delete(ctx, item.StoragePath); err != nil {
				logger.FromContext(ctx).Warn("failed to delete gallery object", "path", item.StoragePath, "error", err)
			}
		})

	limited := middleware.RateLimitMiddleware(d.Cache, d.RateLimitPerHour)

	fn := router.Group("/functions/v1")
	fn.Use(limited)
	fn.POST("/track-visitor", functions.TrackVisitor)
	fn.POST("/send-birthday-confirmation", functions.SendBirthdayConfirmation)

	public := router.Group("/api")
	public.GET("/birthday/settings", reservations.GetBirthdaySettings)
	public.POST("/reservations", limited, reservations.SubmitReservation)
	public.GET("/sections/:key", sections.GetPublicSection)
	public.GET("/rooms", rooms.ListPublic)
	public.GET("/products", products.ListPublic)
	public.GET("/gallery", gallery.ListPublic)

	admin := router.Group("/api/admin")
	admin.GET("/reservations", reservations.ListReservations)
	admin.GET("/reservations/export", reservations.ExportReservations)
	admin.GET("/reservations/:id", reservations.GetReservation)
	admin.PATCH("/reservations/:id/status", reservations.UpdateReservationStatus)
	admin.DELETE("/reservations/:id", reservations.DeleteReservation)

	admin.GET("/sections", sections.ListSections)
	admin.GET("/sections/:key", sections.GetSection)
	admin.PUT("/sections/:key", sections.PutSection)
	admin.DELETE("/sections/:key", sections.DeleteSection)

	registerContent(admin.Group("/rooms"), rooms)
	registerContent(admin.Group("/products"), products)
	registerContent(admin.Group("/gallery"), gallery)

	admin.POST("/uploads/:bucket", uploads.Upload)
	admin.DELETE("/uploads/:bucket/*path", uploads.DeleteUpload)

	admin.GET("/analytics/daily", analytics.GetDailyVisits)
	admin.GET("/analytics/regions", analytics.GetTopRegions)
	admin.GET("/analytics/summary", analytics.GetSummary)

	if local, ok := d.Storage.(*storage.LocalStorage); ok {
		router.Static("/files", local.Root())
	}

	if d.WebSocket != nil {
		router.GET("/ws", d.WebSocket.HandleConnections)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if err := d.DB.Ping(); err != nil {
			dbStatus = "unavailable"
		}
		redisStatus := "local_cache_only"
		if d.Cache.IsAvailable() {
			redisStatus = "connected"
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":    map[bool]string{true: "healthy", false: "degraded"}[status == http.StatusOK],
			"timestamp": time.Now().Unix(),
			"services": map[string]string{
				"database": dbStatus,
				"redis":    redisStatus,
				"cache":    "active",
			},
		})
	})

	return router
}

func registerContent[T any](g *gin.RouterGroup, h *ContentHandler[T]) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
