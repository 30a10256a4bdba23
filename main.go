// Entry point of the blog backend. Wires configuration, the database pool,
// services and handlers, the HTTP router and middleware, and handles graceful
// shutdown.
//
// @title Blog Backend API
// @version 1.0
// @description Minimal blogging backend: cookie-based JWT auth and post management with image uploads.
// @BasePath /
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vyshnavipusrala/backend/apperror"
	"github.com/vyshnavipusrala/backend/auth"
	"github.com/vyshnavipusrala/backend/background"
	"github.com/vyshnavipusrala/backend/config"
	"github.com/vyshnavipusrala/backend/db"
	_ "github.com/vyshnavipusrala/backend/docs" // Generated Swagger docs
	"github.com/vyshnavipusrala/backend/posts"
	"github.com/vyshnavipusrala/backend/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.EnableExtensions(pool); err != nil {
		log.Fatalf("Failed to enable extensions: %v", err)
	}

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	uploadStore, err := storage.NewLocal(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize upload store: %v", err)
	}

	// Background sweeper for uploads no post references anymore.
	janitorStopChan := make(chan struct{})
	janitorWg := background.StartUploadJanitor(pool, uploadStore, janitorStopChan)

	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret)

	userStore := auth.NewPGUserStore(pool)
	authService := auth.NewAuthService(userStore, codec, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	postStore := posts.NewPGPostStore(pool)
	postService := posts.NewPostService(postStore)
	postHandlers := posts.NewHandlers(postService, uploadStore, cfg.Uploads.MaxSize)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// The session cookie only travels cross-origin when credentials are
	// allowed, which in turn requires a concrete origin rather than "*".
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that formats the 500 through the shared error shape.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public auth routes.
	r.Post("/register", authHandlers.HandleRegister())
	r.Post("/login", authHandlers.HandleLogin())
	r.Post("/logout", authHandlers.HandleLogout())

	// Public post reads.
	r.Get("/post", postHandlers.HandleListPosts())
	r.Get("/post/{id}", postHandlers.HandleGetPost())

	// Routes behind the auth gate.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(codec))

		r.Get("/profile", authHandlers.HandleProfile())
		r.Post("/post", postHandlers.HandleCreatePost())
		r.Put("/post/{id}", postHandlers.HandleUpdatePost())
	})

	// Uploaded images are served statically under their public prefix.
	r.Handle(storage.PublicPrefix+"*", http.StripPrefix(storage.PublicPrefix,
		http.FileServer(http.Dir(uploadStore.Dir()))))

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(janitorStopChan)
	janitorWg.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware; it keeps
// panic responses in the same JSON error shape as handler errors.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
