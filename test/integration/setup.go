package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/fanzoneapp/fanzone/internal/adapters/handler/http"
	repo "github.com/fanzoneapp/fanzone/internal/adapters/repository/postgres"
	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/services"
	"github.com/fanzoneapp/fanzone/internal/logger"
	"github.com/fanzoneapp/fanzone/internal/metrics"
)

var jwtSecret = []byte("test-secret")

var (
	metricsOnce sync.Once
	testMetrics *metrics.Metrics
)

type emptySports struct{}

func (emptySports) Matches(ctx context.Context, competitionID int) ([]domain.Match, error) {
	return nil, nil
}

func (emptySports) Standings(ctx context.Context, competitionID int) ([]domain.Standing, error) {
	return nil, nil
}

func (emptySports) TopScorers(ctx context.Context, competitionID int) ([]domain.Scorer, error) {
	return nil, nil
}

func (emptySports) Competitions(ctx context.Context) ([]domain.Competition, error) {
	return nil, nil
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(dirPath + "/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	metricsOnce.Do(func() { testMetrics = metrics.New("integration_test") })
	log := logger.New("integration-test")

	pollRepo := repo.NewPollRepository(db)
	walletRepo := repo.NewWalletRepository(db)
	userRepo := repo.NewUserRepository(db)
	postRepo := repo.NewPostRepository(db)

	pollService := services.NewPollService(pollRepo, nil, log, nil)
	walletService := services.NewWalletService(walletRepo, pollRepo, pollService, log, nil)
	postService := services.NewPostService(postRepo)
	feedService := services.NewFeedService(pollRepo, postRepo)
	userService := services.NewUserService(userRepo)

	router := handler.NewHandler(handler.Handlers{
		Polls:  handler.NewPollHandler(pollService, walletService, userService),
		Posts:  handler.NewPostHandler(postService),
		Feed:   handler.NewFeedHandler(feedService),
		Wallet: handler.NewWalletHandler(walletService),
		Users:  handler.NewUserHandler(userService),
		Sports: handler.NewSportsHandler(emptySports{}),
	}, jwtSecret, log, testMetrics)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

// createUserAndToken inserts a user with the given wallet balance and
// returns a signed access token for it.
func (app *TestApp) createUserAndToken(t *testing.T, balance int64, isTeam bool) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	username := fmt.Sprintf("user-%s", userID)
	email := fmt.Sprintf("%s@example.com", username)
	_, err := app.DB.Exec(
		"INSERT INTO users (id, username, display_name, email, is_team) VALUES ($1, $2, $3, $4, $5)",
		userID, username, "Test User", email, isTeam,
	)
	require.NoError(t, err)
	_, err = app.DB.Exec("INSERT INTO wallets (user_id, balance) VALUES ($1, $2)", userID, balance)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)
	return userID, token
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
