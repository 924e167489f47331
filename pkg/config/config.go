package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL         string
	Port                string
	IsProduction        bool
	EnableDBCheck       bool
	AuditXMLPath        string
	SeedDefaultAccounts bool
	RateLimit           string
}

// LoadConfig loads configuration from environment variables and a .env file
// if one is present. Environment variables win over .env values.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("AUDIT_XML_PATH", "data/transactions.xml")
	viper.SetDefault("SEED_DEFAULT_ACCOUNTS", false)
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL not set, falling back to the in-memory store.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.AuditXMLPath = viper.GetString("AUDIT_XML_PATH")
	cfg.SeedDefaultAccounts = viper.GetBool("SEED_DEFAULT_ACCOUNTS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
