package models

// TournamentCategory mirrors the categories of the professional tour.
// The category decides how many rounds a draw has.
type TournamentCategory string

const (
	CategoryGrandSlam     TournamentCategory = "GRAND_SLAM"
	CategoryMasters       TournamentCategory = "MASTERS"
	CategoryMaster1000    TournamentCategory = "MASTER1000"
	CategoryT250          TournamentCategory = "T250"
	CategoryChallenger125 TournamentCategory = "CHALLENGER125"
)

type TournamentSurface string

const (
	SurfaceClay        TournamentSurface = "CLAY"
	SurfaceGrass       TournamentSurface = "GRASS"
	SurfaceOutdoorHard TournamentSurface = "OUTDOOR_HARD"
	SurfaceIndoorHard  TournamentSurface = "INDOOR_HARD"
)

// MatchRound values are ordered from the earliest possible round to the
// final. Which subset applies to a tournament comes from the round table.
type MatchRound string

const (
	RoundR1      MatchRound = "R1"
	RoundR2      MatchRound = "R2"
	RoundR3      MatchRound = "R3"
	RoundEighth  MatchRound = "EIGHTH"
	RoundQuarter MatchRound = "QUARTER"
	RoundSemi    MatchRound = "SEMI"
	RoundFinal   MatchRound = "FINAL"
)

type MatchType string

const (
	MatchTypeSingles MatchType = "SINGLES"
	MatchTypeDoubles MatchType = "DOUBLES"
)

type PlayerCategory string

const (
	PlayerCategoryATP PlayerCategory = "ATP"
	PlayerCategoryWTA PlayerCategory = "WTA"
)

type MatchState string

const (
	MatchStateNotBegun   MatchState = "NOT_BEGUN"
	MatchStateInProgress MatchState = "IN_PROGRESS"
	MatchStateSuspended  MatchState = "SUSPENDED"
	MatchStateFinished   MatchState = "FINISHED"
)

type PlayerMainHand string

const (
	MainHandLeft  PlayerMainHand = "LEFT"
	MainHandRight PlayerMainHand = "RIGHT"
)

type PlayerBackhand string

const (
	BackhandOneHanded PlayerBackhand = "ONE_HANDED"
	BackhandTwoHanded PlayerBackhand = "TWO_HANDED"
)
