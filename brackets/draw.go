package brackets

import (
	"context"
	"fmt"

	"github.com/opencourt/tennis-tour/models"
	"golang.org/x/sync/errgroup"
)

// PlayerPool supplies unseeded players for first-round seeding. The
// exclusion set keeps a player from being drawn twice within the same
// round. Implementations fail when fewer than count eligible players
// exist.
type PlayerPool interface {
	DrawUnseeded(ctx context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error)
}

// MatchCreator persists a generated match and returns its id.
// Implementations must be safe for concurrent use: the four brackets
// of a draw are generated in parallel.
type MatchCreator interface {
	CreateMatch(ctx context.Context, match *models.Match) (int, error)
}

// DrawGenerator produces the full bracket structure of a tournament
// edition: the first round seeded from the player pool, every later
// round created with placeholder teams to be filled by advancement.
type DrawGenerator struct {
	pool    PlayerPool
	matches MatchCreator
	rounds  RoundTable
}

func NewDrawGenerator(pool PlayerPool, matches MatchCreator, rounds RoundTable) *DrawGenerator {
	return &DrawGenerator{
		pool:    pool,
		matches: matches,
		rounds:  rounds,
	}
}

// Generate builds the four brackets of a calendar entry, one per
// (match type, player category) combination. The combinations are
// independent and run concurrently; within one bracket generation is
// sequential because each first-round draw depends on the players
// already drawn in that round.
func (g *DrawGenerator) Generate(ctx context.Context, category models.TournamentCategory, calendarID int) (*models.Draw, error) {
	draw := &models.Draw{}

	targets := []struct {
		matchType      models.MatchType
		playerCategory models.PlayerCategory
		bracket        *[]int
	}{
		{models.MatchTypeSingles, models.PlayerCategoryATP, &draw.Singles.ATP},
		{models.MatchTypeSingles, models.PlayerCategoryWTA, &draw.Singles.WTA},
		{models.MatchTypeDoubles, models.PlayerCategoryATP, &draw.Doubles.ATP},
		{models.MatchTypeDoubles, models.PlayerCategoryWTA, &draw.Doubles.WTA},
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, target := range targets {
		target := target
		group.Go(func() error {
			bracket, err := g.generateBracket(groupCtx, category, calendarID, target.matchType, target.playerCategory)
			if err != nil {
				return fmt.Errorf("bracket %s/%s: %w", target.matchType, target.playerCategory, err)
			}
			*target.bracket = bracket
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return draw, nil
}

func (g *DrawGenerator) generateBracket(
	ctx context.Context,
	category models.TournamentCategory,
	calendarID int,
	matchType models.MatchType,
	playerCategory models.PlayerCategory,
) ([]int, error) {
	rounds := g.rounds(category)
	if len(rounds) == 0 {
		return nil, fmt.Errorf("no rounds for category %s", category)
	}
	firstRound := rounds[0]

	bracket := make([]int, 0, TotalMatches(rounds))

	// Sequence numbers run across all rounds of the bracket, so every
	// round occupies a contiguous numeric range.
	matchNumber := 1

	for _, round := range rounds {
		var playersDrawn []int

		for i := 0; i < MatchCountForRound(round); i++ {
			var players []models.Player
			if round == firstRound {
				drawn, err := g.pool.DrawUnseeded(ctx, playerCategory, PlayersPerMatch(matchType), playersDrawn)
				if err != nil {
					return nil, fmt.Errorf("draw players for match %d: %w", matchNumber, err)
				}
				players = drawn
			}

			team1, team2, drawnIDs := AssignPlayersToTeams(matchType, players)
			playersDrawn = append(playersDrawn, drawnIDs...)

			match := &models.Match{
				CalendarID: calendarID,
				Round:      round,
				Number:     matchNumber,
				Team1:      team1,
				Team2:      team2,
				State:      models.MatchStateNotBegun,
			}
			id, err := g.matches.CreateMatch(ctx, match)
			if err != nil {
				return nil, fmt.Errorf("create match %d: %w", matchNumber, err)
			}

			bracket = append(bracket, id)
			matchNumber++
		}
	}

	return bracket, nil
}
