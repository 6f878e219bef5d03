package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"tailordesk/internal/adapter/handler"
	"tailordesk/internal/adapter/storage"
	"tailordesk/internal/config"
	"tailordesk/internal/core/service"
	"tailordesk/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Initialize the store
	db, err := sql.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to open %s: %v", cfg.DBDriver, err)
	}
	if cfg.DBDriver == "sqlite" {
		// One writer connection; the engine is request/response anyway.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping %s: %v", cfg.DBDriver, err)
	}
	if err := storage.Migrate(ctx, db, cfg.DBDriver); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("connected to %s", cfg.DBDriver)

	// Optional Redis-backed message dedup
	var dedup port.DedupRepository
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		dedup = storage.NewRedisAdapter(rdb)
		log.Println("connected to redis, message dedup enabled")
	}

	bindings, err := cfg.RoleBindings()
	if err != nil {
		log.Fatalf("resolve roles: %v", err)
	}
	resolver := service.NewRoleResolver(bindings)

	store := storage.NewSQLAdapter(db)
	engine := service.New(resolver, store, store, dedup, port.SystemClock{})

	webhook := handler.NewWebhookHandler(engine)
	command := handler.NewCommandHandler(engine)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", command.HealthCheck)
	mux.HandleFunc("/webhook", webhook.Receive)
	mux.HandleFunc("/api/command", command.Run)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	if rdb != nil {
		rdb.Close()
	}
	db.Close()
	log.Println("connections closed")
}
