package sports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanzoneapp/fanzone/internal/logger"
)

const matchesBody = `{
	"matches": [
		{
			"id": 1,
			"utcDate": "2026-08-30T15:00:00Z",
			"status": "FINISHED",
			"matchday": 3,
			"homeTeam": {"id": 57, "name": "Arsenal FC", "tla": "ARS"},
			"awayTeam": {"id": 64, "name": "Liverpool FC", "tla": "LIV"},
			"score": {"fullTime": {"home": 2, "away": 1}},
			"competition": {"name": "Premier League"}
		}
	]
}`

func TestMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/competitions/2021/matches", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("X-Auth-Token"))
		w.Write([]byte(matchesBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", logger.New("test"))
	matches, err := client.Matches(context.Background(), 2021)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "FINISHED", m.Status)
	assert.Equal(t, "Arsenal FC", m.HomeTeam.Name)
	assert.Equal(t, "LIV", m.AwayTeam.TLA)
	require.NotNil(t, m.HomeScore)
	assert.Equal(t, 2, *m.HomeScore)
	assert.Equal(t, "Premier League", m.Competition)
}

func TestMatchesCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(matchesBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", logger.New("test"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		matches, err := client.Matches(ctx, 2021)
		require.NoError(t, err)
		require.Len(t, matches, 1)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestMissingTokenDegradesToEmpty(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", logger.New("test"))

	matches, err := client.Matches(context.Background(), 2021)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, int32(0), calls.Load(), "no upstream call without a token")
}

func TestUpstreamErrorDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", logger.New("test"))

	scorers, err := client.TopScorers(context.Background(), 2021)
	require.NoError(t, err)
	assert.Empty(t, scorers)
}

func TestStandings(t *testing.T) {
	body := `{
		"standings": [
			{
				"table": [
					{
						"position": 1,
						"team": {"id": 57, "name": "Arsenal FC", "tla": "ARS"},
						"playedGames": 3,
						"won": 3,
						"points": 9,
						"goalsFor": 8,
						"goalsAgainst": 2,
						"goalDifference": 6
					}
				]
			}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/competitions/2021/standings", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", logger.New("test"))
	standings, err := client.Standings(context.Background(), 2021)
	require.NoError(t, err)
	require.Len(t, standings, 1)

	assert.Equal(t, 1, standings[0].Position)
	assert.Equal(t, 9, standings[0].Points)
	assert.Equal(t, "Arsenal FC", standings[0].Team.Name)
}
