package configs

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env           string
	Port          string
	DBDriver      string
	DBSource      string
	JWTSecret     string
	SessionTTL    time.Duration
	AdminEmail    string
	AdminPassword string
	CatalogPath   string
	TaxRate       decimal.Decimal
	CORSOrigins   []string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
	}
	tax, err := decimal.NewFromString(getEnv("TAX_RATE", "0.19"))
	if err != nil || tax.IsNegative() {
		tax = decimal.RequireFromString("0.19")
	}

	return &Config{
		Env:           getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8000"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBSource:      getEnv("DB_SOURCE", "sabores.db"),
		JWTSecret:     getEnv("JWT_SECRET", "changeme"),
		SessionTTL:    ttl,
		AdminEmail:    strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", "admin@sabores.cl"))),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		CatalogPath:   getEnv("CATALOG_PATH", "data/menu.json"),
		TaxRate:       tax,
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
