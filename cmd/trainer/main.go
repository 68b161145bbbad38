package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/config"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/handler"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/health"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/session"
	ws "github.com/dushyantrajotia/NCC-AI-Trainer/internal/websocket"

	_ "github.com/dushyantrajotia/NCC-AI-Trainer/docs" // Swagger docs
)

// @title NCC AI Trainer API
// @version 1.0
// @description API оценки строевых приемов по потоку ключевых точек тела
// @description
// @description ## Описание
// @description Сервис принимает последовательности 2D ключевых точек тела (из внешнего детектора позы),
// @description проверяет биомеханику строевого шага, воинского приветствия и поворотов на месте
// @description и возвращает структурированный отчет с вердиктом и рекомендациями.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	log.Printf("[INFO] Starting trainer server...")

	cfg := config.Load()
	log.Printf("[INFO] Configuration loaded: http_port=%s grpc_port=%s redis=%s",
		cfg.HTTPPort, cfg.GRPCPort, cfg.RedisAddr)

	// Redis - горячее состояние активных сессий
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("[FATAL] Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Printf("[INFO] Connected to Redis at %s", cfg.RedisAddr)

	cache := session.NewRedisStore(redisClient)

	// PostgreSQL - постоянное хранилище сохраненных сессий
	repository, err := session.NewPostgresRepositoryFromDSN(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to PostgreSQL: %v", err)
	}
	defer repository.Close()
	log.Printf("[INFO] Connected to PostgreSQL")

	manager := session.NewManager(cache, repository, cfg.SessionDataTTLSeconds)

	// WebSocket hub живого режима
	hub := ws.NewHub()
	go hub.Run()

	// HTTP маршруты
	router := mux.NewRouter()

	httpHandler := handler.NewHTTPHandler(manager, cfg.MaxFramesPerRequest)
	httpHandler.RegisterRoutes(router)

	router.HandleFunc("/ws/live", hub.HandleWebSocket)

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      enableCORS(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// gRPC - health-проверки для оркестратора
	grpcServer := grpc.NewServer()

	healthServer := health.NewHealthServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	grpcAddress := fmt.Sprintf(":%s", cfg.GRPCPort)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		log.Fatalf("[FATAL] Failed to listen on %s: %v", grpcAddress, err)
	}

	healthServer.SetServingStatus("")
	healthServer.SetAllServing()

	serverErrChan := make(chan error, 2)

	go func() {
		log.Printf("[INFO] gRPC server listening on %s", grpcAddress)
		if err := grpcServer.Serve(listener); err != nil {
			serverErrChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		log.Printf("[INFO] HTTP server listening on :%s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		log.Printf("[ERROR] Server error: %v", err)

	case sig := <-shutdownChan:
		log.Printf("[INFO] Received signal %v, starting graceful shutdown...", sig)

		healthServer.SetNotServingStatus("")
		healthServer.SetNotServingStatus(health.ServiceSessions)
		healthServer.SetNotServingStatus(health.ServiceLive)
		healthServer.SetNotServingStatus(health.ServiceStorage)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] HTTP server forced to shutdown: %v", err)
		}

		grpcServer.GracefulStop()

		log.Printf("[INFO] Graceful shutdown completed")
	}

	log.Printf("[INFO] Server stopped")
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			return
		}

		next.ServeHTTP(w, r)
	})
}
