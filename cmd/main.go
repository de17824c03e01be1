package main

import (
	"log"
	"os"

	"github.com/anujdhillxn/zenvia/config"
	"github.com/anujdhillxn/zenvia/routes"
	"github.com/anujdhillxn/zenvia/services"
	"github.com/anujdhillxn/zenvia/utils"
)

func main() {
	config.InitDB()
	utils.InitMailer()

	ps, err := services.NewPushService(config.DB)
	if err != nil {
		log.Fatalf("Failed to initialize push service: %v", err)
	}
	rt := services.NewRealtimeHub()
	services.InitEventDeps(rt, ps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(ps, rt)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
