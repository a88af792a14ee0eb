package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dfactory/ticketbooth/config"
	"github.com/dfactory/ticketbooth/internal/handlers"
	"github.com/dfactory/ticketbooth/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	setupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/availability", handlers.GetAvailability)
			eventPublic.GET("/:id/document", handlers.GetEventDocument)
			eventPublic.GET("/:id/votes", middleware.OptionalJWTMiddleware(), handlers.GetVotes)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.PUT("/profile", handlers.UpdateProfile)

		protected.POST("/events/:id/enrollments", handlers.CreateEnrollment)
		protected.POST("/events/:id/votes", handlers.CastVote)

		protected.GET("/enrollments", handlers.ListMyEnrollments)
		protected.GET("/invoices/:bookingId", handlers.GetInvoice)
		protected.GET("/tickets/:code/qr", handlers.GetTicketQR)
	}

	admin := r.Group("/v1")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
	{
		admin.GET("/admin/events", handlers.ListAllEvents)
		admin.POST("/events", handlers.CreateEvent)
		admin.PUT("/events/:id", handlers.UpdateEvent)
		admin.PATCH("/events/:id/status", handlers.UpdateEventStatus)
		admin.GET("/events/:id/enrollments", handlers.ListEventEnrollments)
		admin.POST("/enrollments/:id/payment", handlers.MarkEnrollmentPaid)
		admin.POST("/enrollments/:id/refund", handlers.RefundEnrollment)
	}
}
