package config

import "os"

// Config holds everything the service reads from the environment.
// main loads .env via godotenv before calling Load.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	RedisAddr    string
	KafkaBrokers string
	OrdersTopic  string

	PaymentProviderURL string
	PaymentProviderKey string

	AssistantAPIURL string
	AssistantAPIKey string
}

func Load() Config {
	return Config{
		Addr:               getenv("FARM_MARKET_ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		KafkaBrokers:       os.Getenv("KAFKA_BROKERS"),
		OrdersTopic:        getenv("ORDER_EVENTS_TOPIC", "order-events"),
		PaymentProviderURL: os.Getenv("PAYMENT_PROVIDER_URL"),
		PaymentProviderKey: os.Getenv("PAYMENT_PROVIDER_KEY"),
		AssistantAPIURL:    os.Getenv("ASSISTANT_API_URL"),
		AssistantAPIKey:    os.Getenv("ASSISTANT_API_KEY"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
