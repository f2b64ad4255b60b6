package config

import "os"

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	// payment gateway
	GatewayBaseURL   string
	GatewaySecretKey string
	ReturnURL        string
	WebsiteURL       string
}

func Load() Config {
	return Config{
		Addr:             getenv("ADDR", ":8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		GatewayBaseURL:   getenv("KHALTI_BASE_URL", "https://dev.khalti.com/api/v2"),
		GatewaySecretKey: os.Getenv("KHALTI_SECRET_KEY"),
		ReturnURL:        getenv("CHECKOUT_RETURN_URL", "http://localhost:8080/api/v1/checkout/gateway/return"),
		WebsiteURL:       getenv("WEBSITE_URL", "http://localhost:8080"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
