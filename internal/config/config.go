package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port            string
	DBDSN           string
	LogFile         string
	TaxRate         float64
	ShippingDirect  float64
	ShippingDropShip float64
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "tradehub.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./tradehub.log"
	}

	cfg := Config{
		Port:             port,
		DBDSN:            dsn,
		LogFile:          logFile,
		TaxRate:          envFloat("TAX_RATE", 0.10),
		ShippingDirect:   envFloat("SHIPPING_DIRECT", 15.0),
		ShippingDropShip: envFloat("SHIPPING_DROPSHIP", 0),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TAX_RATE=%.4f", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TaxRate)
	return cfg
}

func envFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		log.Printf("[config] ignoring bad %s=%q", key, s)
		return def
	}
	return f
}
