package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourt/tennis-tour/brackets"
	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func drawnCalendar() *models.Calendar {
	return &models.Calendar{
		ID:           9,
		TournamentID: 3,
		Draw: &models.Draw{
			Singles: models.DrawSection{
				ATP: []int{10, 11, 12, 13, 14, 15, 16},
				WTA: []int{20, 21, 22, 23, 24, 25, 26},
			},
			Doubles: models.DrawSection{
				ATP: []int{30, 31, 32, 33, 34, 35, 36},
				WTA: []int{40, 41, 42, 43, 44, 45, 46},
			},
		},
	}
}

func quarterWinEvent() models.MatchFinished {
	p1 := 101
	return models.MatchFinished{
		EventID:    "evt-1",
		MatchID:    10,
		Round:      models.RoundQuarter,
		Number:     1,
		Team:       models.Team{Number: 1, Player1: &p1, IsWinner: true},
		CalendarID: 9,
	}
}

func newAdvancementFixture(matchRepo *fakeMatchRepo) AdvancementService {
	calendarRepo := &fakeCalendarRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Calendar, error) {
			return drawnCalendar(), nil
		},
	}
	tournamentRepo := &fakeTournamentRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: 3, Category: models.CategoryT250}, nil
		},
	}
	return NewAdvancementService(calendarRepo, tournamentRepo, matchRepo, brackets.ReducedRoundTable, nil, discardLogger())
}

func TestAdvancementServiceAdvance(t *testing.T) {
	t.Run("winner is written into the next bracket slot", func(t *testing.T) {
		var gotMatchID, gotSlot int
		var gotTeam models.Team
		matchRepo := &fakeMatchRepo{
			AssignTeamFunc: func(_ context.Context, matchID int, slot int, team models.Team) error {
				gotMatchID, gotSlot, gotTeam = matchID, slot, team
				return nil
			},
		}
		svc := newAdvancementFixture(matchRepo)

		placement, err := svc.Advance(context.Background(), quarterWinEvent())
		require.NoError(t, err)

		assert.Equal(t, brackets.Placement{Position: 5, TeamSlot: 1}, placement)
		assert.Equal(t, 14, gotMatchID)
		assert.Equal(t, 1, gotSlot)
		require.NotNil(t, gotTeam.Player1)
		assert.Equal(t, 101, *gotTeam.Player1)
		assert.False(t, gotTeam.IsWinner, "winner flag must not leak into the next match")
		assert.Equal(t, 1, gotTeam.Number)
	})

	t.Run("replayed event with same occupant is a no-op", func(t *testing.T) {
		p1 := 101
		matchRepo := &fakeMatchRepo{
			AssignTeamFunc: func(_ context.Context, _ int, _ int, _ models.Team) error {
				return repositories.ErrTeamSlotOccupied
			},
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return &models.Match{
					ID:    14,
					Team1: models.Team{Number: 1, Player1: &p1},
					Team2: models.Team{Number: 2},
				}, nil
			},
		}
		svc := newAdvancementFixture(matchRepo)

		placement, err := svc.Advance(context.Background(), quarterWinEvent())
		require.NoError(t, err)
		assert.Equal(t, brackets.Placement{Position: 5, TeamSlot: 1}, placement)
	})

	t.Run("different occupant is a duplicate assignment", func(t *testing.T) {
		other := 555
		matchRepo := &fakeMatchRepo{
			AssignTeamFunc: func(_ context.Context, _ int, _ int, _ models.Team) error {
				return repositories.ErrTeamSlotOccupied
			},
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return &models.Match{
					ID:    14,
					Team1: models.Team{Number: 1, Player1: &other},
					Team2: models.Team{Number: 2},
				}, nil
			},
		}
		svc := newAdvancementFixture(matchRepo)

		_, err := svc.Advance(context.Background(), quarterWinEvent())
		assert.ErrorIs(t, err, ErrDuplicateAssignment)
	})

	t.Run("final winner is not advanced", func(t *testing.T) {
		matchRepo := &fakeMatchRepo{}
		svc := newAdvancementFixture(matchRepo)

		event := quarterWinEvent()
		event.MatchID = 16
		event.Round = models.RoundFinal
		event.Number = 7

		_, err := svc.Advance(context.Background(), event)
		assert.ErrorIs(t, err, brackets.ErrAdvanceAfterFinal)
	})

	t.Run("calendar without draw fails", func(t *testing.T) {
		calendarRepo := &fakeCalendarRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Calendar, error) {
				return &models.Calendar{ID: 9, TournamentID: 3}, nil
			},
		}
		tournamentRepo := &fakeTournamentRepo{}
		svc := NewAdvancementService(calendarRepo, tournamentRepo, &fakeMatchRepo{}, brackets.ReducedRoundTable, nil, discardLogger())

		_, err := svc.Advance(context.Background(), quarterWinEvent())
		assert.ErrorIs(t, err, ErrDrawNotFound)
	})

	t.Run("out of range match number fails", func(t *testing.T) {
		svc := newAdvancementFixture(&fakeMatchRepo{})

		event := quarterWinEvent()
		event.Number = 12

		_, err := svc.Advance(context.Background(), event)
		assert.ErrorIs(t, err, brackets.ErrAdvancementRange)
	})
}
