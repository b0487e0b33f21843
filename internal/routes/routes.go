package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clearance-booking/internal/config"
	"github.com/BruksfildServices01/clearance-booking/internal/handlers"
	"github.com/BruksfildServices01/clearance-booking/internal/middleware"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
	ucBooking "github.com/BruksfildServices01/clearance-booking/internal/usecase/booking"
)

// Dependencies are the long-lived services built once in main.
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Bookings ucBooking.Deps
	Metrics  http.Handler
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	// ======================================================
	// USE CASES
	// ======================================================
	bookingUC := ucBooking.NewUseCases(deps.Bookings)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.DB, cfg)
	meHandler := handlers.NewMeHandler(deps.DB)
	bookingHandler := handlers.NewBookingHandler(bookingUC, cfg.Timezone)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB, cfg.Timezone)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			bookings := secured.Group("/bookings")
			{
				bookings.GET("", bookingHandler.List)
				bookings.GET("/stats", bookingHandler.Stats)
				bookings.POST("", bookingHandler.Create)

				bookings.GET("/:id", bookingHandler.Get)
				bookings.GET("/:id/permissions", bookingHandler.Permissions)
				bookings.GET("/:id/history", bookingHandler.History)

				bookings.POST("/:id/submit", bookingHandler.Submit)
				bookings.POST("/:id/quote", bookingHandler.Quote)
				bookings.POST("/:id/approve", bookingHandler.Approve)
				bookings.POST("/:id/payments", bookingHandler.Pay)
				bookings.POST("/:id/crew", bookingHandler.AssignCrew)
				bookings.POST("/:id/start", bookingHandler.Start)
				bookings.POST("/:id/complete", bookingHandler.Complete)
				bookings.POST("/:id/review", bookingHandler.Review)
				bookings.POST("/:id/cancel", bookingHandler.Cancel)
				bookings.POST("/:id/refund", bookingHandler.Refund)
			}

			secured.GET("/audit-logs",
				middleware.RequireRoles(permission.RoleAdmin, permission.RoleManagement),
				auditLogsHandler.List,
			)
		}
	}
}
