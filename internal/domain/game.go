package domain

import "time"

// ScoreEntry is one finished game in a player's history.
type ScoreEntry struct {
	PlayerID   string    `json:"playerId"`
	Score      int       `json:"score"`
	RecordedAt time.Time `json:"recordedAt"`
}

// RecentScoreLimit is how many finished games are kept per player.
const RecentScoreLimit = 3

// GameSummary is a snapshot of cumulative game state.
type GameSummary struct {
	SessionID     string `json:"sessionId"`
	PlayerID      string `json:"playerId"`
	DisplayName   string `json:"displayName"`
	GameScore     int    `json:"gameScore"`
	QuestionScore int    `json:"questionScore"`
	Answered      int    `json:"answered"`
	Ended         bool   `json:"ended"`
}
