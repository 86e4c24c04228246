package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/lacquerlab/salon-scheduler/internal/config"
	dbpkg "github.com/lacquerlab/salon-scheduler/internal/db"
	"github.com/lacquerlab/salon-scheduler/internal/jobs"
	"github.com/lacquerlab/salon-scheduler/internal/middleware"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
	"github.com/lacquerlab/salon-scheduler/internal/routes"
	"github.com/lacquerlab/salon-scheduler/internal/store"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	docs := store.NewGormStore(db)
	tenants := repository.NewTenants(docs)

	hub := notify.NewHub()

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		bridge := notify.NewRedisBridge(redis.NewClient(opts), hub)
		bridge.Start(context.Background())
		log.Println("redis event bridge enabled")
	}

	runner := jobs.NewRunner(tenants, docs, hub)
	cronJobs := runner.Start()
	defer cronJobs.Stop()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, hub, tenants)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
