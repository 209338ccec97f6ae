package models

import "time"

// Match is one slot of a bracket. Number is the global 1-based
// sequence number within the match's bracket (not within its round);
// the advancement arithmetic depends on it.
type Match struct {
	ID         int        `json:"id" db:"id"`
	CalendarID int        `json:"calendar_id" db:"calendar_id"`
	Round      MatchRound `json:"round" db:"round"`
	Number     int        `json:"number" db:"number"`
	Team1      Team       `json:"team1" db:"team1"`
	Team2      Team       `json:"team2" db:"team2"`
	Score      *Score     `json:"score,omitempty" db:"score"`
	State      MatchState `json:"state" db:"state"`
	StartDate  *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" db:"end_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Team is one side of a match. Number is the slot (1 or 2), zero while
// the side has not been attributed yet. Player2 is only set in doubles.
type Team struct {
	Number   int  `json:"number,omitempty"`
	Player1  *int `json:"player1,omitempty"`
	Player2  *int `json:"player2,omitempty"`
	IsWinner bool `json:"is_winner,omitempty"`
}

// HasPlayers reports whether any player has been attributed to the team.
func (t Team) HasPlayers() bool {
	return t.Player1 != nil || t.Player2 != nil
}

// HasPlayer reports whether the given player plays for the team.
func (t Team) HasPlayer(playerID int) bool {
	return (t.Player1 != nil && *t.Player1 == playerID) ||
		(t.Player2 != nil && *t.Player2 == playerID)
}

// SamePlayers reports whether both teams field exactly the same players.
func (t Team) SamePlayers(other Team) bool {
	return intPtrEqual(t.Player1, other.Player1) && intPtrEqual(t.Player2, other.Player2)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ScorePair is one entry of a score sequence, serialized as a two
// element array. For points/games/sets the pair is (index, winning
// team number); for the set history it is (team1 games, team2 games).
type ScorePair [2]int

// Score is the live scoring state of a match. Points and games are
// cleared whenever their containing unit completes; sets are cleared
// when the match finishes. The won counts are always recomputed from
// the sequences, never tracked separately.
type Score struct {
	Points  []ScorePair `json:"points"`
	Games   []ScorePair `json:"games"`
	Sets    []ScorePair `json:"sets"`
	History []ScorePair `json:"history"`
}

// NewScore returns an empty score with allocated sequences so the
// persisted JSON document carries [] rather than null.
func NewScore() *Score {
	return &Score{
		Points:  []ScorePair{},
		Games:   []ScorePair{},
		Sets:    []ScorePair{},
		History: []ScorePair{},
	}
}

// CountWonBy counts the entries of a sequence credited to a team.
func CountWonBy(pairs []ScorePair, teamNumber int) int {
	n := 0
	for _, p := range pairs {
		if p[1] == teamNumber {
			n++
		}
	}
	return n
}

// MatchFinished is emitted when a non-final match completes, carrying
// everything the advancement resolver needs to place the winner.
type MatchFinished struct {
	EventID    string     `json:"event_id"`
	MatchID    int        `json:"match_id"`
	Round      MatchRound `json:"round"`
	Number     int        `json:"number"`
	Team       Team       `json:"team"`
	CalendarID int        `json:"calendar_id"`
}

type MatchFilter struct {
	CalendarID *int
	State      *MatchState
	Skip       int
	Results    int
}
