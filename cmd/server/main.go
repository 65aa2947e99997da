package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/rpattn/shipstage/internal/commit"
	"github.com/rpattn/shipstage/internal/config"
	"github.com/rpattn/shipstage/internal/db"
	"github.com/rpattn/shipstage/internal/middleware"
	"github.com/rpattn/shipstage/internal/repository"
	"github.com/rpattn/shipstage/internal/resolver"
	"github.com/rpattn/shipstage/internal/staging"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbConfig, err := config.LoadDBConfig(".")
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}
	serverConfig, err := config.LoadServerConfig(".")
	if err != nil {
		log.Fatalf("Failed to load server config: %v", err)
	}

	// Run migrations before opening the pool
	if err := db.RunMigrations(dbConfig); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	conn, err := db.NewConnection(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Create repositories
	orgRepo := repository.NewOrganizationRepository(conn.Pool)
	referenceRepo := repository.NewReferenceRepository(conn.Pool)
	mappingRepo := repository.NewTranslationMappingRepository(conn.Pool)
	stagingRepo := repository.NewStagingRepository(conn.Pool)
	shipmentRepo := repository.NewShipmentRepository(conn)

	// Wire the pipeline
	refResolver := resolver.New(referenceRepo, mappingRepo)
	stagingService := staging.NewService(stagingRepo, shipmentRepo, orgRepo, mappingRepo, refResolver)
	commitProcessor := commit.NewProcessor(stagingRepo, shipmentRepo)

	apiHandler := staging.NewHTTPHandler(stagingService, commitProcessor, orgRepo, shipmentRepo)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   serverConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	http.Handle("/", corsHandler.Handler(middleware.LoggingMiddleware(apiHandler)))

	server := &http.Server{
		Addr:         serverConfig.Addr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting import server on %s", serverConfig.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
