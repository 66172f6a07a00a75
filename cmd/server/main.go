// @title           Sketch2Photo Backend API
// @version         1.0.0
// @description     Backend API for turning hand-drawn sketches into photorealistic images. Handles sketch upload, GAN processing orchestration, gallery reads, and profile management on top of Supabase.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a Supabase JWT.

package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sketch2photo-backend/docs"
	"sketch2photo-backend/internal/config"
	"sketch2photo-backend/internal/database"
	"sketch2photo-backend/internal/gan"
	"sketch2photo-backend/internal/handlers"
	"sketch2photo-backend/internal/logger"
	"sketch2photo-backend/internal/middleware"
	"sketch2photo-backend/internal/services"
	"sketch2photo-backend/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required (Supabase PostgreSQL connection string)")
	}

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	sketchStorage, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SketchBucket)
	if err != nil {
		log.Fatalf("Failed to initialize sketch storage client: %v", err)
	}

	avatarStorage, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.AvatarBucket)
	if err != nil {
		log.Fatalf("Failed to initialize avatar storage client: %v", err)
	}

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	authClient := supabase.NewAuthClient(supabaseClient)
	ganClient := gan.NewClient(cfg.GANAPIBaseURL)

	sketchService := services.NewSketchService(dbClient, sketchStorage, ganClient, appLog)
	sketchWatcher := services.NewSketchWatcher(dbClient, services.DefaultPollInterval, appLog)
	profileService := services.NewProfileService(dbClient, avatarStorage, sketchStorage, authClient, appLog)

	authHandler := handlers.NewAuthHandler(profileService)
	sketchesHandler := handlers.NewSketchesHandler(sketchService, sketchWatcher)
	profilesHandler := handlers.NewProfilesHandler(profileService)

	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handlers.HealthHandler)

	router.POST("/auth/signup", authHandler.SignUp)
	router.POST("/auth/signin", authHandler.SignIn)

	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(cfg))
	authed.POST("/auth/signout", authHandler.SignOut)
	authed.PUT("/auth/password", authHandler.UpdatePassword)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/sketches", sketchesHandler.Submit)
	api.GET("/sketches", sketchesHandler.List)
	api.GET("/sketches/:sketch_id", sketchesHandler.Get)
	api.GET("/sketches/:sketch_id/watch", sketchesHandler.Watch)
	api.DELETE("/sketches/:sketch_id", sketchesHandler.Delete)

	api.GET("/profile", profilesHandler.Get)
	api.PUT("/profile", profilesHandler.Update)
	api.POST("/profile/avatar", profilesHandler.UploadAvatar)
	api.DELETE("/profile", profilesHandler.Delete)

	appLog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
