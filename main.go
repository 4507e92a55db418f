package main

import (
	"fmt"
	"os"

	"vivah/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var jwtSecret []byte // loaded from config/env JWT_SECRET (fallback to dev default)

var log *zap.Logger

func main() {
	log = logger.New(os.Getenv("VIVAH_LOG_LEVEL"), os.Getenv("VIVAH_LOG_FORMAT"))
	cfg, err := loadConfig(log)
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Support a lightweight migrate command: `./vivah migrate`
	// Runs AutoMigrate and master-data seeding then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB(cfg)
		fmt.Println("migration and seeding completed")
		return
	}

	initDB(cfg)

	var cache *ScoreCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = newScoreCache(rdb, cfg, log)
		log.Info("score cache enabled", zap.String("redis", cfg.RedisAddr))
	}

	svc := &SearchService{
		db:      db,
		retr:    &Retriever{db: db, maxCandidates: cfg.Search.MaxCandidates},
		tracker: &Tracker{db: db},
		cache:   cache,
		cfg:     cfg,
		log:     log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	setupRoutes(r, svc, cfg)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

// requestLogger logs one line per request with method, path, status, latency.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
