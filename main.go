package main

import (
	"fmt"
	"log"
	"os"

	"clinicpro-backend/config"
	"clinicpro-backend/models"
	"clinicpro-backend/routes"
	"clinicpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Employee{},
		&models.Treatment{},
		&models.Appointment{},
		&models.AppointmentTreatment{},
		&models.Invoice{},
		&models.Payment{},
		&models.AuditLog{},
		&models.ReminderLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	services.NewReminderService(db).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(db)
	printRoutes(r)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
