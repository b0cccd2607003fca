package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/comitanigiacomo/circle-leader-engine/docs"
	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/email"
	adapterHTTP "github.com/comitanigiacomo/circle-leader-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/circle-leader-engine/internal/config"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/workers"
)

const trendCacheTTL = 10 * time.Minute

type repositories struct {
	leaders    domain.LeaderRepository
	notes      domain.NoteRepository
	todos      domain.TodoRepository
	scorecards domain.ScorecardRepository
	users      domain.UserRepository
}

func openRepositories(db *sqlx.DB) repositories {
	if db == nil {
		return repositories{
			leaders:    repository.NewInMemoryLeaderRepository(),
			notes:      repository.NewInMemoryNoteRepository(),
			todos:      repository.NewInMemoryTodoRepository(),
			scorecards: repository.NewInMemoryScorecardRepository(),
			users:      repository.NewInMemoryUserRepository(),
		}
	}
	return repositories{
		leaders:    repository.NewPostgresLeaderRepository(db),
		notes:      repository.NewPostgresNoteRepository(db),
		todos:      repository.NewPostgresTodoRepository(db),
		scorecards: repository.NewPostgresScorecardRepository(db),
		users:      repository.NewPostgresUserRepository(db),
	}
}

func connectDatabase(cfg config.DatabaseConfig) *sqlx.DB {
	dsn := cfg.DSN()
	if dsn == "" {
		log.Println("DB_NAME not set: using in-memory storage. Data is lost on restart.")
		return nil
	}

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")
	return db
}

func connectRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		log.Println("REDIS_HOST not set: caching and rate limiting disabled.")
		return nil
	}

	rdb, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable, continuing without it: %v", err)
		return nil
	}
	log.Println("Redis connected successfully.")
	return rdb
}

func newEmailSender(cfg config.EmailConfig) services.EmailSender {
	if cfg.APIKey == "" {
		log.Println("EMAIL_API_KEY not set: digests are logged, not sent.")
		return email.LogSender{}
	}
	return email.NewResendClient(cfg.BaseURL, cfg.APIKey, cfg.From, cfg.Timeout)
}

func main() {
	startTime := time.Now()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	db := connectDatabase(cfg.Database)
	if db != nil {
		defer db.Close()
	}

	rdb := connectRedis(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	repos := openRepositories(db)
	if rdb != nil {
		repos.leaders = repository.NewCachedLeaderRepository(repos.leaders, rdb)
	}

	clock := domain.SystemClock{}

	leaderService := services.NewLeaderService(repos.leaders, repos.notes, clock)
	noteService := services.NewNoteService(repos.notes, repos.leaders)
	todoService := services.NewTodoService(repos.todos, clock)
	trendCache := cache.NewTTLCache[domain.WeeklyTrends](trendCacheTTL, clock)
	scorecardService := services.NewScorecardService(repos.scorecards, repos.leaders, trendCache, clock)

	var linkService *services.LinkService
	if cfg.Digest.LinkSecret != "" {
		linkService = services.NewLinkService(cfg.Digest.LinkSecret, "circle-leader-engine", cfg.Digest.LinkTTL)
	} else {
		log.Println("DIGEST_LINK_SECRET not set: digests carry no one-click links.")
	}

	digestService := services.NewDigestService(
		repos.users, repos.leaders, todoService,
		newEmailSender(cfg.Email), linkService, clock, cfg.Digest.BaseURL,
	)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	digestWorker := workers.NewDigestWorker(digestService, cfg.Digest.QueueSize)
	digestWorker.Start(workerCtx)

	scheduler := workers.NewDigestScheduler(digestService, digestWorker, clock, cfg.Digest.SendHour, cfg.Digest.TickInterval)
	scheduler.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		LeaderHandler:    adapterHTTP.NewLeaderHandler(leaderService),
		NoteHandler:      adapterHTTP.NewNoteHandler(noteService),
		TodoHandler:      adapterHTTP.NewTodoHandler(todoService),
		ScorecardHandler: adapterHTTP.NewScorecardHandler(scorecardService),
		DigestHandler:    adapterHTTP.NewDigestHandler(scheduler, digestService, cfg.Digest.CronSecretHash),
		DB:               db,
		Redis:            rdb,
		StartTime:        startTime,
		RateLimit:        cfg.Server.RateLimit,
		RateWindow:       cfg.Server.RateWindow,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Circle Leader Engine running on http://localhost:%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
