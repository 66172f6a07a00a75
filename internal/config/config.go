package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Supabase
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	// Storage buckets
	SketchBucket string
	AvatarBucket string

	// Generation endpoint (the launcher service)
	GANAPIBaseURL string

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
}

// LauncherConfig configures the generation launcher, the small service
// that wraps the GAN model subprocess behind an HTTP endpoint.
type LauncherConfig struct {
	Port       string
	PythonBin  string
	GANScript  string
	UploadDir  string
	ResultsDir string
}

func Load() (*Config, error) {
	// A missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),

		SketchBucket: getEnv("SKETCH_BUCKET", "sketches"),
		AvatarBucket: getEnv("AVATAR_BUCKET", "avatars"),

		GANAPIBaseURL: getEnv("GAN_API_BASE_URL", "http://localhost:5000"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	return nil
}

// LoadLauncher reads the launcher environment. Every variable has a
// usable default, mirroring the paths the model script ships with.
func LoadLauncher() *LauncherConfig {
	_ = godotenv.Load()

	return &LauncherConfig{
		Port:       getEnv("LAUNCHER_PORT", "5000"),
		PythonBin:  getEnv("PYTHON_BIN", "python3"),
		GANScript:  getEnv("GAN_SCRIPT", "gan_model/gan_acces.py"),
		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
		ResultsDir: getEnv("RESULTS_DIR", "results"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
