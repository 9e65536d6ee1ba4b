package routes

import (
	"net/http"
	"time"

	"eclinic/handlers"
	"eclinic/middleware"
	"eclinic/models"
	"eclinic/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the slot claim/release and booking history endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTSessionMiddleware(hb.JWTSecret))
		api.POST("", middleware.RequireRole(models.RolePatient, models.RoleAdmin), hb.ClaimSlotHandler)
		api.POST("/cancel-by-time", middleware.RequireRole(models.RoleDoctor, models.RoleAdmin), hb.CancelByTimeHandler)
		api.POST("/:id/cancel", hb.ReleaseSlotHandler)
		api.GET("/:id", hb.GetBookingHandler)
	}
}

// RegisterDoctorRoutes registers schedule, availability and per-doctor booking endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/doctors")
	{
		api.Use(middleware.JWTSessionMiddleware(hb.JWTSecret))
		api.GET("/:id/availability", hb.GetAvailabilityHandler)
		api.GET("/:id/timeslots", hb.GetTimeslotsHandler)

		// Self-or-admin is checked by the services.
		owner := api.Group("")
		owner.Use(middleware.RequireRole(models.RoleDoctor, models.RoleAdmin))
		owner.GET("/:id/bookings", hb.ListDoctorBookingsHandler)
		owner.PUT("/:id/schedule", hb.SaveScheduleHandler)
		owner.POST("/:id/availability/rebuild", hb.RebuildAvailabilityHandler)
	}
}

// RegisterPatientRoutes registers per-patient booking history.
func RegisterPatientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/patients")
	{
		api.Use(middleware.JWTSessionMiddleware(hb.JWTSecret))
		api.Use(middleware.RequireRole(models.RolePatient, models.RoleAdmin))
		api.GET("/:id/bookings", hb.ListPatientBookingsHandler)
	}
}

// RegisterNotificationRoutes registers the chat push endpoint.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTSessionMiddleware(hb.JWTSecret))
		api.POST("/push", hb.SendPushHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the health monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		health := utils.GetHealthStatus()
		status := http.StatusOK
		for _, up := range health.Services {
			if !up {
				status = http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "services": health.Services, "checkedAt": health.CheckedAt})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterPatientRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
}
