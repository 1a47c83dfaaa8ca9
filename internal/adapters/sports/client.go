// Package sports wraps a football-data style API. The data is display-only:
// upstream failures and a missing API token both degrade to empty results so
// the match screens render without hard errors.
package sports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
	"github.com/fanzoneapp/fanzone/internal/logger"
)

const cacheTTL = 2 * time.Minute

type cacheEntry struct {
	data      any
	fetchedAt time.Time
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logger.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

var _ ports.SportsProvider = (*Client)(nil)

func NewClient(baseURL, token string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.football-data.org/v4"
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
		cache:   make(map[string]cacheEntry),
	}
}

type matchesResponse struct {
	Matches []struct {
		ID       int       `json:"id"`
		UTCDate  time.Time `json:"utcDate"`
		Status   string    `json:"status"`
		Matchday int       `json:"matchday"`
		HomeTeam teamJSON  `json:"homeTeam"`
		AwayTeam teamJSON  `json:"awayTeam"`
		Score    struct {
			FullTime struct {
				Home *int `json:"home"`
				Away *int `json:"away"`
			} `json:"fullTime"`
		} `json:"score"`
		Competition struct {
			Name string `json:"name"`
		} `json:"competition"`
	} `json:"matches"`
}

type teamJSON struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

func (t teamJSON) toDomain() domain.Team {
	return domain.Team{ID: t.ID, Name: t.Name, ShortName: t.ShortName, TLA: t.TLA, Crest: t.Crest}
}

func (c *Client) Matches(ctx context.Context, competitionID int) ([]domain.Match, error) {
	endpoint := fmt.Sprintf("/competitions/%d/matches", competitionID)

	var raw matchesResponse
	if !c.fetch(ctx, endpoint, &raw) {
		return nil, nil
	}

	matches := make([]domain.Match, 0, len(raw.Matches))
	for _, m := range raw.Matches {
		matches = append(matches, domain.Match{
			ID:          m.ID,
			UTCDate:     m.UTCDate,
			Status:      m.Status,
			Matchday:    m.Matchday,
			HomeTeam:    m.HomeTeam.toDomain(),
			AwayTeam:    m.AwayTeam.toDomain(),
			HomeScore:   m.Score.FullTime.Home,
			AwayScore:   m.Score.FullTime.Away,
			Competition: m.Competition.Name,
		})
	}
	return matches, nil
}

type standingsResponse struct {
	Standings []struct {
		Table []struct {
			Position       int      `json:"position"`
			Team           teamJSON `json:"team"`
			PlayedGames    int      `json:"playedGames"`
			Won            int      `json:"won"`
			Draw           int      `json:"draw"`
			Lost           int      `json:"lost"`
			Points         int      `json:"points"`
			GoalsFor       int      `json:"goalsFor"`
			GoalsAgainst   int      `json:"goalsAgainst"`
			GoalDifference int      `json:"goalDifference"`
		} `json:"table"`
	} `json:"standings"`
}

func (c *Client) Standings(ctx context.Context, competitionID int) ([]domain.Standing, error) {
	endpoint := fmt.Sprintf("/competitions/%d/standings", competitionID)

	var raw standingsResponse
	if !c.fetch(ctx, endpoint, &raw) {
		return nil, nil
	}

	var standings []domain.Standing
	if len(raw.Standings) > 0 {
		for _, row := range raw.Standings[0].Table {
			standings = append(standings, domain.Standing{
				Position:       row.Position,
				Team:           row.Team.toDomain(),
				PlayedGames:    row.PlayedGames,
				Won:            row.Won,
				Draw:           row.Draw,
				Lost:           row.Lost,
				Points:         row.Points,
				GoalsFor:       row.GoalsFor,
				GoalsAgainst:   row.GoalsAgainst,
				GoalDifference: row.GoalDifference,
			})
		}
	}
	return standings, nil
}

type scorersResponse struct {
	Scorers []struct {
		Player struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"player"`
		Team      teamJSON `json:"team"`
		Goals     int      `json:"goals"`
		Assists   int      `json:"assists"`
		Penalties int      `json:"penalties"`
	} `json:"scorers"`
}

func (c *Client) TopScorers(ctx context.Context, competitionID int) ([]domain.Scorer, error) {
	endpoint := fmt.Sprintf("/competitions/%d/scorers", competitionID)

	var raw scorersResponse
	if !c.fetch(ctx, endpoint, &raw) {
		return nil, nil
	}

	scorers := make([]domain.Scorer, 0, len(raw.Scorers))
	for _, s := range raw.Scorers {
		scorers = append(scorers, domain.Scorer{
			PlayerID:   s.Player.ID,
			PlayerName: s.Player.Name,
			Team:       s.Team.toDomain(),
			Goals:      s.Goals,
			Assists:    s.Assists,
			Penalties:  s.Penalties,
		})
	}
	return scorers, nil
}

type competitionsResponse struct {
	Competitions []struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Code   string `json:"code"`
		Emblem string `json:"emblem"`
		Area   struct {
			Name string `json:"name"`
		} `json:"area"`
	} `json:"competitions"`
}

func (c *Client) Competitions(ctx context.Context) ([]domain.Competition, error) {
	var raw competitionsResponse
	if !c.fetch(ctx, "/competitions", &raw) {
		return nil, nil
	}

	comps := make([]domain.Competition, 0, len(raw.Competitions))
	for _, comp := range raw.Competitions {
		comps = append(comps, domain.Competition{
			ID:     comp.ID,
			Name:   comp.Name,
			Code:   comp.Code,
			Emblem: comp.Emblem,
			Area:   comp.Area.Name,
		})
	}
	return comps, nil
}

// fetch reports whether out was populated, from cache or upstream. A missing
// token or any upstream failure yields false, never an error.
func (c *Client) fetch(ctx context.Context, endpoint string, out any) bool {
	if c.token == "" {
		return false
	}

	c.mu.Lock()
	entry, ok := c.cache[endpoint]
	c.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < cacheTTL {
		raw := entry.data.([]byte)
		return json.Unmarshal(raw, out) == nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithField("endpoint", endpoint).Warn("sports api request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.WithField("endpoint", endpoint).WithField("status", resp.StatusCode).Warn("sports api returned error")
		return false
	}

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		return false
	}

	c.mu.Lock()
	c.cache[endpoint] = cacheEntry{data: []byte(buf), fetchedAt: time.Now()}
	c.mu.Unlock()

	return json.Unmarshal(buf, out) == nil
}
