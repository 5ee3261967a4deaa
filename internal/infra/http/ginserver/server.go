package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"fleetbook/internal/app/tenant"
	"fleetbook/internal/infra/config"
	"fleetbook/internal/infra/obs"
)

type VehicleHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
}

type BookingHTTP interface {
	Calendar(c *gin.Context)
	Create(c *gin.Context)
}

type AdminHTTP interface {
	ListReservations(c *gin.Context)
	PatchReservation(c *gin.Context)
	SetStatus(c *gin.Context)
}

type NotificationHTTP interface {
	List(c *gin.Context)
	BulkRead(c *gin.Context)
	SetRead(c *gin.Context)
}

type Handlers struct {
	Vehicles      VehicleHTTP
	Booking       BookingHTTP
	Admin         AdminHTTP
	Notifications NotificationHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(TenantMiddleware(tenant.Options{
		PreviewSuffix: cfg.PreviewSuffix,
		Default:       cfg.DefaultTenant,
	}))
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Forwarded-Host"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Vehicles != nil {
		api.GET("/vehicles", h.Vehicles.List)
		api.GET("/vehicles/:id", h.Vehicles.Get)
	}
	if h.Booking != nil {
		api.GET("/vehicles/:id/reservations", h.Booking.Calendar)
		api.POST("/vehicles/:id/reservations", h.Booking.Create)
	}
	admin := api.Group("/admin")
	if h.Admin != nil {
		admin.GET("/reservations", h.Admin.ListReservations)
		admin.PATCH("/reservations/:id", h.Admin.PatchReservation)
		admin.PATCH("/reservations/:id/status", h.Admin.SetStatus)
	}
	if h.Notifications != nil {
		admin.GET("/notifications", h.Notifications.List)
		admin.PATCH("/notifications", h.Notifications.BulkRead)
		admin.PATCH("/notifications/:id", h.Notifications.SetRead)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

// TenantMiddleware resolves the serving host into a tenant context before
// any handler runs. X-Forwarded-Host wins over Host so the resolution
// survives reverse proxies.
func TenantMiddleware(opts tenant.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.GetHeader("X-Forwarded-Host")
		if host == "" {
			host = c.Request.Host
		}
		tc := tenant.Resolve(host, opts)
		c.Request = c.Request.WithContext(tenant.WithContext(c.Request.Context(), tc))
		c.Next()
	}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
