package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sicko7947/restddb"
	"github.com/sicko7947/restddb/api"
	"github.com/sicko7947/restddb/client"
	"github.com/sicko7947/restddb/store"
)

// Local backends serve a single table keyed by "id"
var localSchema = restddb.KeySchema{"id"}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newStore builds the backend selected by RESTDDB_BACKEND
func newStore(table string) (restddb.Store, func(), error) {
	def := store.TableDefinition{Name: table, KeySchema: localSchema}

	switch backend := getenv("RESTDDB_BACKEND", "memory"); backend {
	case "dynamodb":
		ddb, err := store.NewDynamoDBClient(context.Background(), store.DynamoDBConfig{
			Region:   os.Getenv("AWS_REGION"),
			Endpoint: os.Getenv("RESTDDB_DYNAMODB_ENDPOINT"),
			Timeout:  10 * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.NewDynamoDBStore(ddb), func() {}, nil

	case "badger":
		db, err := store.NewBadgerStore(store.BadgerOptions{
			Path: getenv("RESTDDB_BADGER_PATH", "./data"),
		}, def)
		if err != nil {
			return nil, nil, err
		}
		return db, func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close badger store")
			}
		}, nil

	default:
		log.Info().Str("backend", backend).Msg("Using in-memory store")
		return store.NewMemoryStore(def), func() {}, nil
	}
}

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, c *client.Client) {
	// Health check endpoint
	app.Get("/health", func(ctx fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status": "healthy",
			"table":  c.Table(),
		})
	})

	v1 := app.Group("/api/v1")
	api.NewHandler(c).RegisterRoutes(v1)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})

	table := getenv("RESTDDB_TABLE", "items")

	backend, closeStore, err := newStore(table)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create store")
	}
	defer closeStore()

	c, err := client.New(table,
		client.WithStore(backend),
		client.WithLogger(log.Logger),
		client.WithConfig(restddb.ClientConfig{StoreTimeout: 5 * time.Second}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create client")
	}

	app := fiber.New()
	registerRoutes(app, c)

	// Start server in a goroutine
	go func() {
		addr := getenv("RESTDDB_ADDR", ":3000")
		log.Info().Str("address", addr).Msg("Starting HTTP server")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
