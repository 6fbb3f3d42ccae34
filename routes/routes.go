package routes

import (
	"clinicops-backend/config"
	"clinicops-backend/controllers"
	"clinicops-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(engine *services.Engine) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	appointmentHandler := controllers.NewAppointmentHandler(engine)
	queueHandler := controllers.NewQueueHandler(engine)
	invoiceHandler := controllers.NewInvoiceHandler(engine)

	api := r.Group("/api")
	{
		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", appointmentHandler.CreateAppointment)
			appointments.POST("/recurring", appointmentHandler.CreateRecurringAppointments)
			appointments.GET("", appointmentHandler.GetAppointments)
			appointments.GET("/conflict", appointmentHandler.CheckConflict)
			appointments.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointments.POST("/:id/cancel", appointmentHandler.CancelAppointment)
		}

		// Walk-in queue routes
		queue := api.Group("/queue")
		{
			queue.GET("", queueHandler.GetQueue)
			queue.POST("/sync", queueHandler.SyncQueue)
			queue.POST("/next", queueHandler.CallNext)
			queue.POST("/walk-in", queueHandler.AddWalkIn)
			queue.POST("/:id/complete", queueHandler.CompleteEntry)
			queue.POST("/:id/cancel", queueHandler.CancelEntry)
			queue.GET("/estimate", queueHandler.EstimateWait)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.CreateInvoice)
			invoices.GET("", invoiceHandler.GetInvoices)
			invoices.GET("/payable", invoiceHandler.GetPayableInvoices)
			invoices.GET("/:id", invoiceHandler.GetInvoice)
			invoices.POST("/:id/payments", invoiceHandler.AddPayment)
			invoices.POST("/:id/void", invoiceHandler.VoidInvoice)
		}

		// Patient routes
		patients := api.Group("/patients")
		{
			patients.POST("", controllers.CreatePatient)
			patients.GET("", controllers.GetPatients)
			patients.GET("/:id", controllers.GetPatient)
			patients.PUT("/:id", controllers.UpdatePatient)
			patients.DELETE("/:id", controllers.DeletePatient)
		}

		// Doctor routes
		doctors := api.Group("/doctors")
		{
			doctors.POST("", controllers.CreateDoctor)
			doctors.GET("", controllers.GetDoctors)
			doctors.PUT("/:id", controllers.UpdateDoctor)
			doctors.DELETE("/:id", controllers.DeleteDoctor)
		}

		// Service routes
		clinicServices := api.Group("/services")
		{
			clinicServices.POST("", controllers.CreateService)
			clinicServices.GET("", controllers.GetServices)
			clinicServices.GET("/:id", controllers.GetService)
			clinicServices.PUT("/:id", controllers.UpdateService)
			clinicServices.DELETE("/:id", controllers.DeleteService)
		}

		// Discount type routes
		discounts := api.Group("/discount-types")
		{
			discounts.POST("", controllers.CreateDiscountType)
			discounts.GET("", controllers.GetDiscountTypes)
			discounts.PUT("/:id", controllers.UpdateDiscountType)
		}

		// Payment method routes
		methods := api.Group("/payment-methods")
		{
			methods.POST("", controllers.CreatePaymentMethod)
			methods.GET("", controllers.GetPaymentMethods)
			methods.PUT("/:id", controllers.UpdatePaymentMethod)
		}

		// Employee routes
		employees := api.Group("/employees")
		{
			employees.GET("", controllers.GetEmployees)
			employees.POST("", controllers.AddEmployee)
			employees.PUT("/:id", controllers.UpdateEmployee)
			employees.DELETE("/:id", controllers.DeleteEmployee)
		}
	}

	return r
}
