package models

import "time"

// Player is a tour professional. Infos/Style are stored as JSONB
// subdocuments, matching the shape the frontends consume.
type Player struct {
	ID        int         `json:"id" db:"id"`
	Infos     PlayerInfo  `json:"infos" db:"infos"`
	Style     PlayerStyle `json:"style" db:"style"`
	ProSince  *int        `json:"pro_since,omitempty" db:"pro_since"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

type PlayerInfo struct {
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	DateOfBirth string         `json:"date_of_birth"`
	Country     string         `json:"country"`
	Category    PlayerCategory `json:"category"`
	PictureKey  *string        `json:"picture_key,omitempty"`
	PictureURL  *string        `json:"picture_url,omitempty"`
}

type PlayerStyle struct {
	MainHand PlayerMainHand `json:"main_hand"`
	Backhand PlayerBackhand `json:"backhand"`
}

// PlayerFilter narrows player listings. Exclude is the set of already
// drawn players that must not reappear within the same draw round.
type PlayerFilter struct {
	Category *PlayerCategory
	Name     string
	Exclude  []int
	Skip     int
	Results  int
}
