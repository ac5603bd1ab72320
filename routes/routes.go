package routes

import (
	"os"
	"strings"

	"clinicpro-backend/config"
	"clinicpro-backend/controllers"
	"clinicpro-backend/services"
	"clinicpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	audit := services.NewAuditService(db)
	billing := services.NewBillingService(db, audit)
	scheduling := services.NewSchedulingService(db, audit, billing)

	authController := controllers.NewAuthController(db)
	appointmentController := controllers.NewAppointmentController(scheduling)
	paymentController := controllers.NewPaymentController(billing)
	invoiceController := controllers.NewInvoiceController(billing)
	clientController := controllers.NewClientController(db)
	employeeController := controllers.NewEmployeeController(db)
	treatmentController := controllers.NewTreatmentController(db)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authController.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	staff := utils.RequireRoles("admin", "employee")
	adminOnly := utils.RequireRoles("admin")
	{
		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", staff, appointmentController.Create)
			appointments.GET("", appointmentController.List)
			appointments.GET("/today", appointmentController.Today)
			appointments.GET("/:id", appointmentController.Get)
			appointments.PUT("/:id", staff, appointmentController.Update)
			appointments.PATCH("/:id/status", staff, appointmentController.UpdateStatus)
			appointments.PATCH("/:id/cancel", staff, appointmentController.Cancel)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("", staff, paymentController.Create)
			payments.GET("", paymentController.List)
			payments.GET("/:id", paymentController.Get)
			payments.PATCH("/:id/status", staff, paymentController.UpdateStatus)
			payments.PATCH("/:id/mark-paid", staff, paymentController.MarkPaid)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", staff, invoiceController.Create)
			invoices.GET("", invoiceController.List)
			invoices.GET("/:id", invoiceController.Get)
			invoices.PATCH("/:id/status", staff, invoiceController.UpdateStatus)
			invoices.POST("/:id/recompute", staff, invoiceController.Recompute)
		}

		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", staff, clientController.Create)
			clients.GET("", clientController.List)
			clients.GET("/:id", clientController.Get)
			clients.PUT("/:id", staff, clientController.Update)
			clients.DELETE("/:id", staff, clientController.Deactivate)
		}

		// Employee routes
		employees := api.Group("/employees")
		{
			employees.POST("", adminOnly, employeeController.Create)
			employees.GET("", employeeController.List)
			employees.GET("/:id", employeeController.Get)
			employees.PUT("/:id", adminOnly, employeeController.Update)
			employees.DELETE("/:id", adminOnly, employeeController.Deactivate)
		}

		// Treatment routes
		treatments := api.Group("/treatments")
		{
			treatments.POST("", adminOnly, treatmentController.Create)
			treatments.GET("", treatmentController.List)
			treatments.GET("/:id", treatmentController.Get)
			treatments.PUT("/:id", adminOnly, treatmentController.Update)
			treatments.DELETE("/:id", adminOnly, treatmentController.Deactivate)
		}
	}

	return r
}
