package main

import (
	"fmt"
	"log"
	"os"

	"clinicops-backend/config"
	"clinicops-backend/models"
	"clinicops-backend/routes"
	"clinicops-backend/seed"
	"clinicops-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.DiscountType{},
		&models.Patient{},
		&models.Service{},
		&models.PaymentMethod{},
		&models.Appointment{},
		&models.QueueEntry{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.ReminderLog{},
	)
}

func main() {
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seed.Run(config.DB); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	engine := services.NewEngine(config.DB, services.LogAuditSink{})

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(engine)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
