package models

import "time"

// Tournament is a tour event definition. Its yearly editions live on
// the calendar; the category decides the size of the draw.
type Tournament struct {
	ID           int                `json:"id" db:"id"`
	Name         string             `json:"name" db:"name"`
	CreationYear int                `json:"creation_year" db:"creation_year"`
	Category     TournamentCategory `json:"category" db:"category"`
	PrizeMoney   int                `json:"prize_money" db:"prize_money"`
	Country      string             `json:"country" db:"country"`
	Surface      TournamentSurface  `json:"surface" db:"surface"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time         `json:"updated_at,omitempty" db:"updated_at"`
}

type TournamentFilter struct {
	Category *TournamentCategory
	Surface  *TournamentSurface
	Name     string
	Skip     int
	Results  int
}
