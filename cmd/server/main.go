package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	rediscache "github.com/fanzoneapp/fanzone/internal/adapters/cache/redis"
	"github.com/fanzoneapp/fanzone/internal/adapters/handler/http"
	"github.com/fanzoneapp/fanzone/internal/adapters/repository/postgres"
	"github.com/fanzoneapp/fanzone/internal/adapters/sports"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
	"github.com/fanzoneapp/fanzone/internal/core/services"
	"github.com/fanzoneapp/fanzone/internal/logger"
	"github.com/fanzoneapp/fanzone/internal/metrics"
)

func main() {
	log := logger.New("fanzone-server")

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("failed to reach database")
	}

	met := metrics.New("server")

	pollRepo := postgres.NewPollRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	userRepo := postgres.NewUserRepository(db)
	postRepo := postgres.NewPostRepository(db)

	var resultsCache ports.ResultsCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, results cache disabled")
		} else {
			resultsCache = rediscache.NewResultsCache(client, log)
		}
	}

	pollService := services.NewPollService(pollRepo, resultsCache, log, met)
	walletService := services.NewWalletService(walletRepo, pollRepo, pollService, log, met)
	postService := services.NewPostService(postRepo)
	feedService := services.NewFeedService(pollRepo, postRepo)
	userService := services.NewUserService(userRepo)
	sportsProvider := sports.NewClient(os.Getenv("SPORTS_API_URL"), os.Getenv("SPORTS_API_TOKEN"), log)

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		log.Fatal("JWT_SECRET is required")
	}

	handler := http.NewHandler(http.Handlers{
		Polls:  http.NewPollHandler(pollService, walletService, userService),
		Posts:  http.NewPostHandler(postService),
		Feed:   http.NewFeedHandler(feedService),
		Wallet: http.NewWalletHandler(walletService),
		Users:  http.NewUserHandler(userService),
		Sports: http.NewSportsHandler(sportsProvider),
	}, jwtSecret, log, met)

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	server := &stdhttp.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("shutdown failed")
	}
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"))
}
