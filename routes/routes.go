package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/handlers"
	"github.com/sanz-the-nanny/backend-booking/middleware"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

// SetupRoutes mounts the public surface (calendar, trial booking, contact
// form, login) and the admin API behind JWT auth.
func SetupRoutes(router *gin.Engine, st store.Client, cfg *config.Config, email services.EmailSender) {
	activity := services.NewActivityLogger(st)

	authHandler := handlers.NewAuthHandler(cfg, activity)
	bookingHandler := handlers.NewBookingHandler(st, cfg, email, activity)
	availabilityHandler := handlers.NewAvailabilityHandler(st, cfg, activity)
	clientHandler := handlers.NewClientHandler(st, cfg, activity)
	calendarHandler := handlers.NewCalendarHandler(st, cfg, activity)
	contractHandler := handlers.NewContractHandler(st, cfg, email, activity)
	invoiceHandler := handlers.NewInvoiceHandler(st, cfg, activity)
	prospectHandler := handlers.NewProspectHandler(st, cfg, email, activity)
	dashboardHandler := handlers.NewDashboardHandler(st, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "backend-booking",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/calendar", availabilityHandler.GetCalendar)
		v1.POST("/bookings", bookingHandler.CreateTrialBooking)
		v1.POST("/prospects", prospectHandler.CreateProspect)

		admin := v1.Group("")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware("admin"))
		{
			admin.GET("/auth/me", authHandler.GetMe)

			admin.GET("/bookings", bookingHandler.GetBookings)
			admin.PUT("/bookings/:id/accept", bookingHandler.AcceptBooking)
			admin.PUT("/bookings/:id/decline", bookingHandler.DeclineBooking)
			admin.POST("/bookings/:id/convert", bookingHandler.ConvertToClient)

			admin.GET("/clients", clientHandler.ListClients)
			admin.POST("/clients", clientHandler.CreateClient)
			admin.GET("/clients/:id", clientHandler.GetClient)
			admin.PUT("/clients/:id", clientHandler.UpdateClient)
			admin.DELETE("/clients/:id", clientHandler.DeleteClient)
			admin.PUT("/clients/:id/toggle-status", clientHandler.ToggleStatus)
			admin.PUT("/clients/:id/toggle-override", clientHandler.ToggleOverride)

			admin.POST("/admin/availability", availabilityHandler.SetAvailability)

			admin.GET("/admin/calendar", calendarHandler.GetAdminCalendar)
			admin.POST("/admin/events", calendarHandler.CreateEvent)
			admin.DELETE("/admin/events/:id", calendarHandler.DeleteEvent)

			admin.GET("/contracts", contractHandler.ListContracts)
			admin.POST("/contracts", contractHandler.CreateContract)
			admin.PUT("/contracts/:id", contractHandler.UpdateContract)
			admin.DELETE("/contracts/:id", contractHandler.DeleteContract)
			admin.POST("/contracts/:id/send", contractHandler.SendContract)

			admin.GET("/invoices", invoiceHandler.ListInvoices)
			admin.POST("/invoices", invoiceHandler.CreateInvoice)
			admin.PUT("/invoices/:id", invoiceHandler.UpdateInvoice)
			admin.PUT("/invoices/:id/mark-paid", invoiceHandler.MarkPaid)
			admin.DELETE("/invoices/:id", invoiceHandler.DeleteInvoice)

			admin.GET("/prospects", prospectHandler.ListProspects)
			admin.PUT("/prospects/:id/contacted", prospectHandler.MarkContacted)
			admin.POST("/prospects/:id/convert", prospectHandler.ConvertProspect)
			admin.DELETE("/prospects/:id", prospectHandler.DeleteProspect)

			admin.GET("/admin/dashboard", dashboardHandler.GetDashboard)
		}
	}
}
