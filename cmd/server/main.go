package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"credpal/internal/api"
	"credpal/internal/api/middleware"
	"credpal/internal/app/service"
	"credpal/internal/common/security"
	"credpal/internal/domain/repository"
	"credpal/internal/platform/config"
	"credpal/internal/platform/database"
	"credpal/internal/platform/session"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 3. Initialize Redis (session store)
	session.ConnectRedis()
	defer session.CloseRedis()
	fmt.Println("Redis connected.")

	// 4. Initialize Repositories & Stores
	userRepo := repository.NewPgUserRepository(database.DB)
	productRepo := repository.NewPgProductRepository(database.DB)
	sessionStore := session.NewRedisStore(session.RDB, config.AppConfig.SessionTTL)

	// 5. Initialize Token Service & Authentication Resolver
	tokenService := security.NewTokenService(config.AppConfig.JWTKey, config.AppConfig.TokenTTL)
	resolver := middleware.NewResolver(tokenService, userRepo, sessionStore, config.AppConfig.SessionCookieName)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, sessionStore, tokenService)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, productService, resolver)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
