package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/handler/http/middleware"
)

type RouterDependencies struct {
	LeaderHandler    *LeaderHandler
	NoteHandler      *NoteHandler
	TodoHandler      *TodoHandler
	ScorecardHandler *ScorecardHandler
	DigestHandler    *DigestHandler
	DB               *sqlx.DB
	Redis            *redis.Client
	StartTime        time.Time
	RateLimit        int
	RateWindow       time.Duration
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-User-ID, X-Cron-Secret")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	if deps.Redis != nil {
		limit, window := deps.RateLimit, deps.RateWindow
		if limit <= 0 {
			limit = 100
		}
		if window <= 0 {
			window = time.Minute
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, limit, window))
	}

	router.GET("/health", func(c *gin.Context) {
		// Missing backends are reported, not failed: no DB means in-memory storage.
		dbStatus := "memory"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode, status := http.StatusOK, "ok"
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode, status = http.StatusServiceUnavailable, "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	if deps.DigestHandler != nil {
		deps.DigestHandler.RegisterRoutes(apiV1)
	}

	protected := apiV1.Group("")
	protected.Use(middleware.UserIdentity())
	{
		deps.LeaderHandler.RegisterRoutes(protected)
		deps.NoteHandler.RegisterRoutes(protected)
		deps.TodoHandler.RegisterRoutes(protected)
		deps.ScorecardHandler.RegisterRoutes(protected)
	}

	return router
}
