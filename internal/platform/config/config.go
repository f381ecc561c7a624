package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// StoreDriver selects the synchronized store backend: "memory" or
	// "postgres".
	StoreDriver string
	DatabaseURL string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Seed admin credentials, applied only when the user collection is
	// empty.
	SeedAdminUsername string
	SeedAdminPassword string
	SeedAdminName     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORE_DRIVER", "memory")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "opsledger-backend")
	viper.SetDefault("SEED_ADMIN_USERNAME", "admin")
	viper.SetDefault("SEED_ADMIN_PASSWORD", "changeme")
	viper.SetDefault("SEED_ADMIN_NAME", "Administrator")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.StoreDriver = viper.GetString("STORE_DRIVER")
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.StoreDriver == "postgres" && cfg.DatabaseURL == "" {
		log.Println("Warning: STORE_DRIVER is postgres but PGSQL_URL is not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.SeedAdminUsername = viper.GetString("SEED_ADMIN_USERNAME")
	cfg.SeedAdminPassword = viper.GetString("SEED_ADMIN_PASSWORD")
	cfg.SeedAdminName = viper.GetString("SEED_ADMIN_NAME")

	return cfg, nil
}
