package models

import "time"

// Calendar is one tournament's participation window for a season.
// Draw stays nil until the brackets are generated; drawing is a
// one-time operation.
type Calendar struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	StartDate    time.Time  `json:"start_date" db:"start_date"`
	EndDate      time.Time  `json:"end_date" db:"end_date"`
	PrizeMoney   int        `json:"prize_money" db:"prize_money"`
	Draw         *Draw      `json:"draw,omitempty" db:"draw"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`

	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}

// Draw holds the four independent brackets of a tournament edition.
// Each bracket is the ordered list of match ids, laid out round by
// round: all first-round matches, then the next round, up to the final.
type Draw struct {
	Singles DrawSection `json:"SINGLES"`
	Doubles DrawSection `json:"DOUBLES"`
}

type DrawSection struct {
	ATP []int `json:"ATP"`
	WTA []int `json:"WTA"`
}

// Bracket returns the match id list for one (type, category) pair.
func (d *Draw) Bracket(matchType MatchType, category PlayerCategory) []int {
	section := d.Singles
	if matchType == MatchTypeDoubles {
		section = d.Doubles
	}
	if category == PlayerCategoryWTA {
		return section.WTA
	}
	return section.ATP
}

// Locate finds which bracket contains the given match id.
func (d *Draw) Locate(matchID int) (MatchType, PlayerCategory, bool) {
	for _, matchType := range []MatchType{MatchTypeSingles, MatchTypeDoubles} {
		for _, category := range []PlayerCategory{PlayerCategoryATP, PlayerCategoryWTA} {
			for _, id := range d.Bracket(matchType, category) {
				if id == matchID {
					return matchType, category, true
				}
			}
		}
	}
	return "", "", false
}

type CalendarFilter struct {
	TournamentID *int
	From         *time.Time
	To           *time.Time
	Skip         int
	Results      int
}
