package main

import (
	"database/sql"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/farmlink/farm-market-backend/internal/address"
	"github.com/farmlink/farm-market-backend/internal/assistant"
	"github.com/farmlink/farm-market-backend/internal/cart"
	"github.com/farmlink/farm-market-backend/internal/config"
	"github.com/farmlink/farm-market-backend/internal/events"
	"github.com/farmlink/farm-market-backend/internal/metrics"
	"github.com/farmlink/farm-market-backend/internal/order"
	"github.com/farmlink/farm-market-backend/internal/payment"
	"github.com/farmlink/farm-market-backend/internal/product"
	"github.com/farmlink/farm-market-backend/internal/user"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "app").Logger()

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	m := metrics.New()
	app.Get("/metrics", m.Handler())

	// build services bottom-up so handlers can share them
	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService)

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	cartHandler := cart.NewHandler(cartService)

	orderRepo := order.NewPostgresRepository(db)
	reconciler := order.NewReconciler(orderRepo, productService)

	var producer order.Publisher
	if cfg.KafkaBrokers != "" {
		kafkaProducer := events.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.OrdersTopic)
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	orderService := order.NewService(orderRepo, reconciler, cartService, producer, m)
	orderHandler := order.NewHandler(orderService)

	var sessionCache payment.SessionCache
	if cfg.RedisAddr != "" {
		sessionCache = payment.NewRedisSessionCache(cfg.RedisAddr)
	}
	paymentProvider := payment.NewHTTPProvider(cfg.PaymentProviderURL, cfg.PaymentProviderKey)
	paymentService := payment.NewService(paymentProvider, orderRepo, reconciler, cartService, sessionCache, m)
	paymentHandler := payment.NewHandler(paymentService)

	assistantHandler := assistant.NewHandler(assistant.NewService(cfg.AssistantAPIURL, cfg.AssistantAPIKey))

	addressHandler := address.NewHandler(address.NewService(address.NewPostgresRepository(db)))

	// public routes go in before the JWT middleware
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	assistantHandler.RegisterPublicRoutes(app)
	// payment verification is driven by the provider redirect, which may
	// arrive without an authenticated session
	paymentHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)

	logger.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	logger.Debug().Str("method", c.Method()).Str("url", c.OriginalURL()).Msg("request")
	return c.Next()
}

func mustOpenDB(databaseURL string) *sql.DB {
	if databaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open database")
	}

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("could not reach database")
	}

	return db
}
