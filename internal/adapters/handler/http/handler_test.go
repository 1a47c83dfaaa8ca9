package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanzoneapp/fanzone/internal/adapters/repository/memory"
	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/services"
	"github.com/fanzoneapp/fanzone/internal/logger"
	"github.com/fanzoneapp/fanzone/internal/metrics"
)

var testSecret = []byte("test-secret")

// Registered once; prometheus panics on duplicate collector registration.
var testMetrics = metrics.New("handler_test")

type emptySportsProvider struct{}

func (emptySportsProvider) Matches(ctx context.Context, competitionID int) ([]domain.Match, error) {
	return nil, nil
}

func (emptySportsProvider) Standings(ctx context.Context, competitionID int) ([]domain.Standing, error) {
	return nil, nil
}

func (emptySportsProvider) TopScorers(ctx context.Context, competitionID int) ([]domain.Scorer, error) {
	return nil, nil
}

func (emptySportsProvider) Competitions(ctx context.Context) ([]domain.Competition, error) {
	return nil, nil
}

type testApp struct {
	store  *memory.Store
	server *httptest.Server
	client *http.Client
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewStore()
	log := logger.New("test")

	pollService := services.NewPollService(store.Polls(), nil, log, nil)
	walletService := services.NewWalletService(store.Wallets(), store.Polls(), pollService, log, nil)
	postService := services.NewPostService(store.Posts())
	feedService := services.NewFeedService(store.Polls(), store.Posts())
	userService := services.NewUserService(store.Users())

	handler := NewHandler(Handlers{
		Polls:  NewPollHandler(pollService, walletService, userService),
		Posts:  NewPostHandler(postService),
		Feed:   NewFeedHandler(feedService),
		Wallet: NewWalletHandler(walletService),
		Users:  NewUserHandler(userService),
		Sports: NewSportsHandler(emptySportsProvider{}),
	}, testSecret, log, testMetrics)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testApp{store: store, server: server, client: server.Client()}
}

// createUserAndToken seeds a user with the given balance and returns a signed
// access token for it.
func (app *testApp) createUserAndToken(t *testing.T, balance int64, isTeam bool) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	user := &domain.User{
		ID:          userID,
		Username:    fmt.Sprintf("user-%s", userID),
		DisplayName: "Test User",
		Email:       fmt.Sprintf("user-%s@example.com", userID),
		IsTeam:      isTeam,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, app.store.Users().Create(context.Background(), user))
	app.store.SeedWallet(userID, balance)

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return userID, token
}

func (app *testApp) do(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.client.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (app *testApp) createPoll(t *testing.T, token string, requiredTokens int64) domain.Poll {
	t.Helper()
	resp := app.do(t, http.MethodPost, "/api/polls", token, map[string]any{
		"question":        "Best striker?",
		"options":         []string{"Haaland", "Mbappé"},
		"required_tokens": requiredTokens,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[domain.Poll](t, resp)
}

func TestCreatePollEndpoint(t *testing.T) {
	app := setupApp(t)
	_, token := app.createUserAndToken(t, 0, false)

	poll := app.createPoll(t, token, 0)
	assert.NotEqual(t, uuid.Nil, poll.ID)
	assert.Len(t, poll.Options, 2)

	// Fetch it back through the public route.
	resp := app.do(t, http.MethodGet, "/api/polls/"+poll.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode[domain.Poll](t, resp)
	assert.Equal(t, poll.ID, fetched.ID)
}

func TestCreatePollRequiresAuth(t *testing.T) {
	app := setupApp(t)

	resp := app.do(t, http.MethodPost, "/api/polls", "", map[string]any{
		"question": "Best striker?",
		"options":  []string{"Haaland", "Mbappé"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreatePollValidationStatus(t *testing.T) {
	app := setupApp(t)
	_, token := app.createUserAndToken(t, 0, false)

	resp := app.do(t, http.MethodPost, "/api/polls", token, map[string]any{
		"question": "Best striker?",
		"options":  []string{"Haaland"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVoteEndpoint(t *testing.T) {
	app := setupApp(t)
	_, creatorToken := app.createUserAndToken(t, 0, true)
	poll := app.createPoll(t, creatorToken, 5)

	_, voterToken := app.createUserAndToken(t, 10, false)

	resp := app.do(t, http.MethodPost, "/api/polls/"+poll.ID.String()+"/votes", voterToken, map[string]any{
		"option_id": poll.Options[0].ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	vote := decode[map[string]json.RawMessage](t, resp)
	var newBalance int64
	require.NoError(t, json.Unmarshal(vote["new_balance"], &newBalance))
	assert.Equal(t, int64(5), newBalance)

	// Duplicate vote: 409, balance untouched.
	resp = app.do(t, http.MethodPost, "/api/polls/"+poll.ID.String()+"/votes", voterToken, map[string]any{
		"option_id": poll.Options[1].ID,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/api/wallet", voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balance := decode[map[string]int64](t, resp)
	assert.Equal(t, int64(5), balance["balance"])
}

func TestVoteInsufficientFunds(t *testing.T) {
	app := setupApp(t)
	_, creatorToken := app.createUserAndToken(t, 0, true)
	poll := app.createPoll(t, creatorToken, 5)

	_, voterToken := app.createUserAndToken(t, 3, false)

	resp := app.do(t, http.MethodPost, "/api/polls/"+poll.ID.String()+"/votes", voterToken, map[string]any{
		"option_id": poll.Options[0].ID,
	})
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	body := decode[map[string]json.RawMessage](t, resp)
	var shortfall int64
	require.NoError(t, json.Unmarshal(body["shortfall"], &shortfall))
	assert.Equal(t, int64(2), shortfall)
}

func TestVoteUnknownOptionStatus(t *testing.T) {
	app := setupApp(t)
	_, token := app.createUserAndToken(t, 0, false)
	poll := app.createPoll(t, token, 0)

	resp := app.do(t, http.MethodPost, "/api/polls/"+poll.ID.String()+"/votes", token, map[string]any{
		"option_id": uuid.New(),
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestVoteClosedPollStatus(t *testing.T) {
	app := setupApp(t)
	_, token := app.createUserAndToken(t, 0, false)
	poll := app.createPoll(t, token, 0)

	require.NoError(t, app.store.Polls().Close(context.Background(), poll.ID))

	resp := app.do(t, http.MethodPost, "/api/polls/"+poll.ID.String()+"/votes", token, map[string]any{
		"option_id": poll.Options[0].ID,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestGetResultsEndpoint(t *testing.T) {
	app := setupApp(t)
	_, token := app.createUserAndToken(t, 0, false)
	poll := app.createPoll(t, token, 0)

	resp := app.do(t, http.MethodPost, "/api/polls/"+poll.ID.String()+"/votes", token, map[string]any{
		"option_id": poll.Options[0].ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodGet, "/api/polls/"+poll.ID.String()+"/results", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decode[domain.PollResults](t, resp)

	assert.Equal(t, int64(1), results.TotalVotes)
	require.Len(t, results.Options, 2)
	assert.Equal(t, 100, results.Options[0].Percentage)
	assert.Equal(t, 0, results.Options[1].Percentage)

	// Malformed id maps to 400, unknown id to 404.
	resp = app.do(t, http.MethodGet, "/api/polls/not-a-uuid/results", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/api/polls/"+uuid.NewString()+"/results", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedEndpoint(t *testing.T) {
	app := setupApp(t)
	_, token := app.createUserAndToken(t, 0, false)
	poll := app.createPoll(t, token, 0)

	resp := app.do(t, http.MethodPost, "/api/posts", token, map[string]any{
		"content": "What a match!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodPost, "/api/polls/"+poll.ID.String()+"/votes", token, map[string]any{
		"option_id": poll.Options[0].ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Authenticated: the poll entry carries the viewer's vote.
	resp = app.do(t, http.MethodGet, "/api/feed", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := decode[[]feedEntry](t, resp)
	require.Len(t, entries, 2)

	var pollEntry *feedEntry
	for i := range entries {
		if entries[i].Kind == string(domain.FeedKindPoll) {
			pollEntry = &entries[i]
		}
	}
	require.NotNil(t, pollEntry)
	require.NotNil(t, pollEntry.Poll)
	assert.True(t, pollEntry.Poll.UserVoted)
	require.NotNil(t, pollEntry.Poll.UserOption)
	assert.Equal(t, poll.Options[0].ID, *pollEntry.Poll.UserOption)

	// Anonymous: same feed, no vote state.
	resp = app.do(t, http.MethodGet, "/api/feed", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries = decode[[]feedEntry](t, resp)
	require.Len(t, entries, 2)
	for _, e := range entries {
		if e.Kind == string(domain.FeedKindPoll) {
			assert.False(t, e.Poll.UserVoted)
		}
	}
}

func TestPostLikeEndpoint(t *testing.T) {
	app := setupApp(t)
	_, token := app.createUserAndToken(t, 0, false)

	resp := app.do(t, http.MethodPost, "/api/posts", token, map[string]any{
		"content":   "goal of the season",
		"highlight": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decode[domain.Post](t, resp)
	assert.True(t, post.Highlight)

	resp = app.do(t, http.MethodPost, "/api/posts/"+post.ID.String()+"/like", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count := decode[map[string]int](t, resp)
	assert.Equal(t, 1, count["count"])

	resp = app.do(t, http.MethodPost, "/api/posts/"+post.ID.String()+"/like", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count = decode[map[string]int](t, resp)
	assert.Equal(t, 0, count["count"])
}

func TestRegisterTeamEndpoint(t *testing.T) {
	app := setupApp(t)
	_, token := app.createUserAndToken(t, 0, false)

	resp := app.do(t, http.MethodPost, "/api/users/register-team", token, map[string]any{
		"name":  "Arsenal",
		"email": "club@arsenal.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decode[domain.User](t, resp)
	assert.True(t, user.IsTeam)

	// A team account can now create a token-gated poll.
	resp = app.do(t, http.MethodPost, "/api/polls", token, map[string]any{
		"question":        "Man of the match?",
		"options":         []string{"Saka", "Rice"},
		"required_tokens": 5,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestInvalidToken(t *testing.T) {
	app := setupApp(t)

	resp := app.do(t, http.MethodGet, "/api/users/me", "garbage-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSportsEndpointsDegradeGracefully(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/sports/matches", "/api/sports/standings", "/api/sports/scorers", "/api/sports/competitions"} {
		resp := app.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}
