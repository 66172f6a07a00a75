package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sketch2photo-backend/internal/config"
	"sketch2photo-backend/internal/launcher"
	"sketch2photo-backend/internal/logger"
)

// The launcher is the thin HTTP wrapper around the GAN model script:
// one multipart upload in, one subprocess run, one static result out.
func main() {
	cfg := config.LoadLauncher()

	appLog, err := logger.New("development")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	handler, err := launcher.NewHandler(cfg, appLog)
	if err != nil {
		log.Fatalf("Failed to initialize launcher: %v", err)
	}

	router := gin.Default()
	router.Use(cors.Default())
	handler.Register(router)

	appLog.Info("launcher starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start launcher: %v", err)
	}
}
