package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/cakequest/landing-api/internal/app"
	"github.com/cakequest/landing-api/internal/config"
)

// @title CakeQuest Landing API
// @version 1.0
// @description API for collecting launch-notification emails from the CakeQuest landing page
// @host localhost:8080
// @BasePath /api/
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	logger := log.New(log.Writer(), "CakeQuestAPI: ", log.LstdFlags)

	application := app.New(*cfg, logger)

	serviceContainer := application.Init()

	if err := application.Start(serviceContainer); err != nil {
		log.Panic(err)
	}

	defer func() {
		if err := application.Stop(serviceContainer); err != nil {
			log.Panicf("failed to shutdown application: %v", err)
		}
		log.Println("Application shutdown successfully")
	}()
}
