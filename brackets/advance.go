package brackets

import (
	"errors"
	"fmt"

	"github.com/opencourt/tennis-tour/models"
)

var (
	// ErrAdvanceAfterFinal: a final has no downstream match.
	ErrAdvanceAfterFinal = errors.New("cannot assign players after a final")
	// ErrAdvancementRange: the finished match's number falls outside
	// its round's numeric range, so no next position can be computed.
	ErrAdvancementRange = errors.New("could not calculate new position")
)

// Placement is where a match winner goes: the 1-based position of the
// next match within its bracket, and the team slot it occupies there.
type Placement struct {
	Position int
	TeamSlot int
}

// Resolve computes the placement of the winner of match `number` of
// `round` for a bracket laid out per `rounds`.
//
// Sequence numbers run contiguously across rounds, so each round owns
// the half-open window (start, start+count] of the global numbering.
// Adjacent match pairs of one round feed the same next-round match:
// the odd-numbered match of the pair lands in slot 1, the even one in
// slot 2.
func Resolve(rounds []models.MatchRound, round models.MatchRound, number int) (Placement, error) {
	if round == models.RoundFinal {
		return Placement{}, ErrAdvanceAfterFinal
	}

	currentRoundIndex := -1
	for i, r := range rounds {
		if r == round {
			currentRoundIndex = i
			break
		}
	}
	if currentRoundIndex == -1 || currentRoundIndex == len(rounds)-1 {
		return Placement{}, fmt.Errorf("%w: round %s not in table", ErrAdvancementRange, round)
	}

	currentStart := 0
	for _, r := range rounds[:currentRoundIndex] {
		currentStart += MatchCountForRound(r)
	}
	currentEnd := currentStart + MatchCountForRound(round)
	nextStart := currentEnd

	if number <= currentStart || number > currentEnd {
		return Placement{}, fmt.Errorf("%w: match %d outside round %s range (%d,%d]",
			ErrAdvancementRange, number, round, currentStart, currentEnd)
	}

	positionInRound := number - currentStart
	placement := Placement{
		Position: nextStart + (positionInRound+1)/2,
		TeamSlot: 2,
	}
	if number%2 == 1 {
		placement.TeamSlot = 1
	}
	return placement, nil
}

// NextMatchID resolves the winner's placement and looks the downstream
// match up in the bracket the finished match belongs to.
func NextMatchID(rounds []models.MatchRound, draw *models.Draw, event models.MatchFinished) (int, Placement, error) {
	placement, err := Resolve(rounds, event.Round, event.Number)
	if err != nil {
		return 0, Placement{}, err
	}

	matchType, playerCategory, ok := draw.Locate(event.MatchID)
	if !ok {
		return 0, Placement{}, fmt.Errorf("%w: match %d not part of any bracket", ErrAdvancementRange, event.MatchID)
	}

	bracket := draw.Bracket(matchType, playerCategory)
	if placement.Position < 1 || placement.Position > len(bracket) {
		return 0, Placement{}, fmt.Errorf("%w: position %d outside bracket of %d matches",
			ErrAdvancementRange, placement.Position, len(bracket))
	}
	return bracket[placement.Position-1], placement, nil
}
