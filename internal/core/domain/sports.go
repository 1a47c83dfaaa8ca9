package domain

import "time"

// Read-only sports data used for match discovery screens. These mirror the
// football-data wire shapes; nothing in the ledger depends on them.

type Competition struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Emblem string `json:"emblem"`
	Area   string `json:"area"`
}

type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

type Match struct {
	ID          int       `json:"id"`
	UTCDate     time.Time `json:"utc_date"`
	Status      string    `json:"status"`
	Matchday    int       `json:"matchday"`
	HomeTeam    Team      `json:"home_team"`
	AwayTeam    Team      `json:"away_team"`
	HomeScore   *int      `json:"home_score,omitempty"`
	AwayScore   *int      `json:"away_score,omitempty"`
	Competition string    `json:"competition"`
}

type Standing struct {
	Position       int  `json:"position"`
	Team           Team `json:"team"`
	PlayedGames    int  `json:"played_games"`
	Won            int  `json:"won"`
	Draw           int  `json:"draw"`
	Lost           int  `json:"lost"`
	Points         int  `json:"points"`
	GoalsFor       int  `json:"goals_for"`
	GoalsAgainst   int  `json:"goals_against"`
	GoalDifference int  `json:"goal_difference"`
}

type Scorer struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Team       Team   `json:"team"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	Penalties  int    `json:"penalties"`
}
