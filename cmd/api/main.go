package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harentsoaR/docbid-api/internal/config"
	"github.com/harentsoaR/docbid-api/internal/handlers"
	"github.com/harentsoaR/docbid-api/internal/middleware"
	"github.com/harentsoaR/docbid-api/internal/routes"
	"github.com/harentsoaR/docbid-api/internal/services"
	"github.com/harentsoaR/docbid-api/internal/store"
	"github.com/harentsoaR/docbid-api/internal/store/memstore"
	"github.com/harentsoaR/docbid-api/internal/store/mongostore"
	"github.com/harentsoaR/docbid-api/internal/store/pgstore"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("DB_DRIVER: %s", cfg.Database.Driver)
	log.Printf("PORT: %s", cfg.Server.Port)

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	st, err := openStore(ctx, cfg.Database)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	log.Println("Successfully connected to the database!")

	// --- Initialize Services ---
	tokens, err := utils.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}
	authSvc, err := services.NewAuthService(st, tokens, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	notificationSvc := services.NewNotificationService(cfg.SMS.TextbeltKey, cfg.SMS.TextbeltURL)

	// --- Initialize Handlers with Store and Services ---
	h := handlers.NewHandler(st, authSvc, notificationSvc)

	limiter := middleware.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst)
	defer limiter.Stop()

	router := routes.NewRouter(h, routes.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		PublicDir:      cfg.Server.PublicDir,
		AuthLimiter:    limiter,
		TrustedProxies: cfg.Server.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("Server up: http://localhost:%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	notificationSvc.Wait()
	if err := st.Close(shutdownCtx); err != nil {
		log.Printf("Store close error: %v", err)
	}
	log.Println("Server stopped.")
}

func openStore(ctx context.Context, db config.DatabaseConfig) (store.Store, error) {
	switch db.Driver {
	case config.DriverMongo:
		return mongostore.Open(ctx, db.MongoURI, db.MongoDatabase)
	case config.DriverPostgres:
		return pgstore.Open(ctx, db.PostgresDSN)
	case config.DriverMemory:
		log.Println("Warning: using the in-memory store, data is lost on restart.")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", db.Driver)
	}
}
