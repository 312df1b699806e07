package api

import (
	"net/http"
	"time"

	"credpal/internal/api/handler"
	"credpal/internal/api/middleware"
	"credpal/internal/app/service"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	productService *service.ProductService,
	resolver *middleware.Resolver,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService, resolver)
		api.Route("/auth", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService, resolver)
		api.Route("/users", userHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(productService, resolver)
		api.Route("/products", productHandler.RegisterRoutes)
	})

	return r
}
