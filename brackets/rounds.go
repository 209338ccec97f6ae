package brackets

import "github.com/opencourt/tennis-tour/models"

// MatchCountForRound returns the number of matches played in a round
// of a full single-elimination draw. Unknown rounds map to 0.
func MatchCountForRound(round models.MatchRound) int {
	switch round {
	case models.RoundFinal:
		return 1
	case models.RoundSemi:
		return 2
	case models.RoundQuarter:
		return 4
	case models.RoundEighth:
		return 8
	case models.RoundR3:
		return 16
	case models.RoundR2:
		return 32
	case models.RoundR1:
		return 64
	}
	return 0
}

// RoundTable maps a tournament category to its ordered round sequence.
// It is an explicit dependency of the draw generator and the
// advancement resolver so tests can substitute a smaller table instead
// of the production one.
type RoundTable func(category models.TournamentCategory) []models.MatchRound

// StandardRoundTable is the production table: MASTERS plays a four
// team draw, GRAND_SLAM and MASTER1000 a 128 team draw, every other
// category a 32 team draw.
var StandardRoundTable RoundTable = func(category models.TournamentCategory) []models.MatchRound {
	switch category {
	case models.CategoryMasters:
		return []models.MatchRound{models.RoundSemi, models.RoundFinal}
	case models.CategoryGrandSlam, models.CategoryMaster1000:
		return []models.MatchRound{
			models.RoundR1,
			models.RoundR2,
			models.RoundR3,
			models.RoundEighth,
			models.RoundQuarter,
			models.RoundSemi,
			models.RoundFinal,
		}
	}
	return []models.MatchRound{
		models.RoundR3,
		models.RoundEighth,
		models.RoundQuarter,
		models.RoundSemi,
		models.RoundFinal,
	}
}

// ReducedRoundTable keeps integration draws small: every category maps
// to a seven match QUARTER/SEMI/FINAL table. Never used in production
// wiring.
var ReducedRoundTable RoundTable = func(models.TournamentCategory) []models.MatchRound {
	return []models.MatchRound{models.RoundQuarter, models.RoundSemi, models.RoundFinal}
}

// TotalMatches sums the match counts over a round sequence.
func TotalMatches(rounds []models.MatchRound) int {
	total := 0
	for _, round := range rounds {
		total += MatchCountForRound(round)
	}
	return total
}
