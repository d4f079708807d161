package lichess

import (
	"fmt"
	"strings"

	"github.com/pawnrank/pawnrank/core/algo"
	"github.com/pawnrank/pawnrank/schema"
)

// userResponse is the payload of GET /api/user/{username}.
type userResponse struct {
	ID       string                  `json:"id"`
	Username string                  `json:"username"`
	Title    string                  `json:"title"`
	Disabled bool                    `json:"disabled"`
	Perfs    map[string]perfResponse `json:"perfs"`
}

type perfResponse struct {
	Games  int     `json:"games"`
	Rating float64 `json:"rating"`
	Prov   bool    `json:"prov"`
}

// historyResponse is one game type of GET /api/user/{username}/rating-history.
// Each point is [year, month (0-indexed), day, rating].
type historyResponse struct {
	Name   string      `json:"name"`
	Points [][]float64 `json:"points"`
}

// topResponse is the payload of GET /api/player/top/{nb}/{perfType}.
type topResponse struct {
	Users []topUser `json:"users"`
}

type topUser struct {
	ID       string                  `json:"id"`
	Username string                  `json:"username"`
	Title    string                  `json:"title"`
	Perfs    map[string]perfResponse `json:"perfs"`
}

// perfKey is the JSON key of a game type inside "perfs".
func perfKey(gameType schema.GameType) string {
	return string(gameType)
}

// historyName is the "name" Lichess uses for a game type in rating history.
func historyName(gameType schema.GameType) string {
	if gameType == schema.Puzzle {
		return "puzzles"
	}
	return string(gameType)
}

// toProfile maps a user payload to the source-agnostic profile.
func toProfile(resp userResponse) schema.RatingProfile {
	profile := schema.RatingProfile{
		Username: resp.Username,
		Title:    resp.Title,
		Ratings:  make(map[schema.GameType]schema.PerfStats),
	}
	if profile.Username == "" {
		profile.Username = resp.ID
	}
	for _, gameType := range schema.AllGameTypes {
		perf, ok := resp.Perfs[perfKey(gameType)]
		if !ok {
			continue
		}
		profile.Ratings[gameType] = schema.PerfStats{
			Rating:      algo.NormalizeRating(perf.Rating),
			Games:       perf.Games,
			Provisional: perf.Prov,
		}
	}
	return profile
}

// toHistory picks one game type out of the history payload and converts the
// 0-indexed months to 1-indexed. A game type with no points yields an empty slice.
func toHistory(resp []historyResponse, gameType schema.GameType) ([]schema.RatingHistoryEntry, error) {
	want := historyName(gameType)
	for _, series := range resp {
		if !strings.EqualFold(series.Name, want) {
			continue
		}
		entries := make([]schema.RatingHistoryEntry, 0, len(series.Points))
		for i, point := range series.Points {
			if len(point) != 4 {
				return nil, fmt.Errorf("%s history point %d has %d fields, expected 4", series.Name, i, len(point))
			}
			entries = append(entries, schema.RatingHistoryEntry{
				Year:   int(point[0]),
				Month:  int(point[1]) + 1,
				Day:    int(point[2]),
				Rating: point[3],
			})
		}
		return entries, nil
	}
	return []schema.RatingHistoryEntry{}, nil
}

// toRankedPlayers maps the top-players payload.
func toRankedPlayers(resp topResponse, gameType schema.GameType) []schema.RankedPlayer {
	out := make([]schema.RankedPlayer, 0, len(resp.Users))
	for _, u := range resp.Users {
		name := u.Username
		if name == "" {
			name = u.ID
		}
		out = append(out, schema.RankedPlayer{
			Username: name,
			Title:    u.Title,
			Rating:   algo.NormalizeRating(u.Perfs[perfKey(gameType)].Rating),
		})
	}
	return out
}
