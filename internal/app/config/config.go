package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string
	HTTPAddr      string
	LogMode       string
	InternalToken string
	CatalogDriver string
	CatalogKey    string
	DatabaseURL   string
	SQLitePath    string
	PDFFontDir    string
	PDFRowHeight  float64
}

func MustLoad() Config {
	// .env only fills variables that are not already set
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("config: .env not loaded: %v", err)
		}
	}

	cfg := Config{
		Env:           env("APP_ENV", "development"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		LogMode:       env("LOG_MODE", "dev"),
		InternalToken: mustEnv("INTERNAL_TOKEN"),
		CatalogDriver: env("CATALOG_DRIVER", "sqlite"),
		CatalogKey:    env("CATALOG_KEY", "priceList"),
		SQLitePath:    env("SQLITE_PATH", "catalog.db"),
		PDFFontDir:    env("PDF_FONT_DIR", ""),
		PDFRowHeight:  envFloat("PDF_ROW_HEIGHT_MM", 7),
	}
	switch cfg.CatalogDriver {
	case "postgres":
		cfg.DatabaseURL = mustEnv("DATABASE_URL")
	case "sqlite", "memory":
	default:
		log.Fatalf("unknown CATALOG_DRIVER %q", cfg.CatalogDriver)
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Fatalf("invalid env %s=%q", k, v)
	}
	return f
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}
