package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/routes"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.NewConfig()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.New(config.NewFirebaseDB(cfg))
	email := services.NewEmailJSClient(cfg)
	activity := services.NewActivityLogger(st)

	startExpirySweep(st, activity)

	router := gin.Default()
	router.Use(config.CORSMiddleware(cfg))

	routes.SetupRoutes(router, st, cfg, email)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// startExpirySweep runs the contract auto-expiry once at boot and then every
// morning, so clients lapse even on days with no admin traffic.
func startExpirySweep(st store.Client, activity *services.ActivityLogger) {
	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if n := services.ExpireClients(ctx, st, activity, time.Now()); n > 0 {
			log.Printf("[Expiry] sweep expired %d client(s)", n)
		}
	}

	go sweep()

	c := cron.New()
	if _, err := c.AddFunc("0 6 * * *", sweep); err != nil {
		log.Printf("[Expiry] failed to schedule sweep: %v", err)
		return
	}
	c.Start()
}
