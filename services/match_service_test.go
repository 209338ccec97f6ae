package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourt/tennis-tour/brackets"
	"github.com/opencourt/tennis-tour/models"
)

type fakeAdvancement struct {
	AdvanceFunc func(ctx context.Context, event models.MatchFinished) (brackets.Placement, error)
}

func (f *fakeAdvancement) Advance(ctx context.Context, event models.MatchFinished) (brackets.Placement, error) {
	return f.AdvanceFunc(ctx, event)
}

func inProgressMatch() *models.Match {
	p1, p2 := 101, 202
	return &models.Match{
		ID:         1,
		CalendarID: 9,
		Round:      models.RoundQuarter,
		Number:     1,
		Team1:      models.Team{Number: 1, Player1: &p1},
		Team2:      models.Team{Number: 2, Player1: &p2},
		State:      models.MatchStateInProgress,
		Score:      models.NewScore(),
	}
}

func TestMatchServiceScorePoint(t *testing.T) {
	t.Run("a scored point is persisted", func(t *testing.T) {
		match := inProgressMatch()
		var persisted *models.Match
		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
			UpdateScoringFunc: func(_ context.Context, m *models.Match) error {
				persisted = m
				return nil
			},
		}
		svc := NewMatchService(repo, nil, nil, discardLogger())

		result, err := svc.ScorePoint(context.Background(), 1, 101)
		require.NoError(t, err)

		assert.Equal(t, brackets.OutcomePointScored, result.Outcome)
		require.NotNil(t, persisted)
		assert.Len(t, persisted.Score.Points, 1)
	})

	t.Run("rejected state leaves the store untouched", func(t *testing.T) {
		match := inProgressMatch()
		match.State = models.MatchStateSuspended
		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
			UpdateScoringFunc: func(_ context.Context, m *models.Match) error {
				t.Fatal("rejected point must not be persisted")
				return nil
			},
		}
		svc := NewMatchService(repo, nil, nil, discardLogger())

		result, err := svc.ScorePoint(context.Background(), 1, 101)
		require.NoError(t, err)
		assert.Equal(t, brackets.OutcomeRejectedState, result.Outcome)
	})

	t.Run("unknown player is rejected but the score init persists", func(t *testing.T) {
		p1, p2 := 101, 202
		match := &models.Match{
			ID:         1,
			CalendarID: 9,
			Round:      models.RoundQuarter,
			Number:     1,
			Team1:      models.Team{Number: 1, Player1: &p1},
			Team2:      models.Team{Number: 2, Player1: &p2},
			State:      models.MatchStateNotBegun,
		}
		persisted := false
		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
			UpdateScoringFunc: func(_ context.Context, m *models.Match) error {
				persisted = true
				return nil
			},
		}
		svc := NewMatchService(repo, nil, nil, discardLogger())

		result, err := svc.ScorePoint(context.Background(), 1, 999)
		require.NoError(t, err)
		assert.Equal(t, brackets.OutcomeRejectedUnknownPlayer, result.Outcome)
		assert.True(t, persisted)
	})

	t.Run("finishing a match queues the advancement", func(t *testing.T) {
		match := inProgressMatch()
		// One point from victory: a set up, 5-0 40-0 in the second.
		match.Score.Sets = append(match.Score.Sets, models.ScorePair{0, 1})
		match.Score.History = append(match.Score.History, models.ScorePair{6, 0})
		for i := 0; i < 5; i++ {
			match.Score.Games = append(match.Score.Games, models.ScorePair{i, 1})
		}
		for i := 0; i < 3; i++ {
			match.Score.Points = append(match.Score.Points, models.ScorePair{i, 1})
		}

		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
			UpdateScoringFunc: func(_ context.Context, m *models.Match) error {
				return nil
			},
		}
		advanced := make(chan models.MatchFinished, 1)
		advancement := &fakeAdvancement{
			AdvanceFunc: func(_ context.Context, event models.MatchFinished) (brackets.Placement, error) {
				advanced <- event
				return brackets.Placement{Position: 5, TeamSlot: 1}, nil
			},
		}
		svc := NewMatchService(repo, advancement, nil, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go svc.RunAdvancements(ctx)

		result, err := svc.ScorePoint(ctx, 1, 101)
		require.NoError(t, err)
		assert.Equal(t, brackets.OutcomeMatchFinished, result.Outcome)
		assert.Equal(t, models.MatchStateFinished, result.Match.State)
		assert.True(t, result.Match.Team1.IsWinner)

		event := <-advanced
		assert.Equal(t, 1, event.MatchID)
		assert.Equal(t, models.RoundQuarter, event.Round)
		assert.Equal(t, 9, event.CalendarID)
		assert.NotEmpty(t, event.EventID)
	})

	t.Run("the scoring lock is dropped once the match finishes", func(t *testing.T) {
		match := inProgressMatch()
		match.Score.Sets = append(match.Score.Sets, models.ScorePair{0, 1})
		match.Score.History = append(match.Score.History, models.ScorePair{6, 0})
		for i := 0; i < 5; i++ {
			match.Score.Games = append(match.Score.Games, models.ScorePair{i, 1})
		}
		for i := 0; i < 2; i++ {
			match.Score.Points = append(match.Score.Points, models.ScorePair{i, 1})
		}

		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
			UpdateScoringFunc: func(_ context.Context, m *models.Match) error {
				return nil
			},
		}
		svc := NewMatchService(repo, nil, nil, discardLogger()).(*matchService)

		result, err := svc.ScorePoint(context.Background(), 1, 101)
		require.NoError(t, err)
		assert.Equal(t, brackets.OutcomePointScored, result.Outcome)

		svc.locksMu.Lock()
		_, held := svc.locks[1]
		svc.locksMu.Unlock()
		assert.True(t, held)

		result, err = svc.ScorePoint(context.Background(), 1, 101)
		require.NoError(t, err)
		assert.Equal(t, brackets.OutcomeMatchFinished, result.Outcome)

		svc.locksMu.Lock()
		_, held = svc.locks[1]
		svc.locksMu.Unlock()
		assert.False(t, held)
	})

	t.Run("finishing a final queues nothing", func(t *testing.T) {
		match := inProgressMatch()
		match.Round = models.RoundFinal
		match.Number = 7
		match.Score.Sets = append(match.Score.Sets, models.ScorePair{0, 1})
		match.Score.History = append(match.Score.History, models.ScorePair{6, 0})
		for i := 0; i < 5; i++ {
			match.Score.Games = append(match.Score.Games, models.ScorePair{i, 1})
		}
		for i := 0; i < 3; i++ {
			match.Score.Points = append(match.Score.Points, models.ScorePair{i, 1})
		}

		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
			UpdateScoringFunc: func(_ context.Context, m *models.Match) error {
				return nil
			},
		}
		advancement := &fakeAdvancement{
			AdvanceFunc: func(_ context.Context, event models.MatchFinished) (brackets.Placement, error) {
				t.Fatal("final must not be advanced")
				return brackets.Placement{}, nil
			},
		}
		svc := NewMatchService(repo, advancement, nil, discardLogger())

		result, err := svc.ScorePoint(context.Background(), 1, 101)
		require.NoError(t, err)
		assert.Equal(t, brackets.OutcomeMatchFinished, result.Outcome)
	})
}

func TestMatchServiceSuspendResume(t *testing.T) {
	t.Run("suspend requires an in-progress match", func(t *testing.T) {
		match := inProgressMatch()
		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
			UpdateScoringFunc: func(_ context.Context, m *models.Match) error {
				return nil
			},
		}
		svc := NewMatchService(repo, nil, nil, discardLogger())

		suspended, err := svc.Suspend(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, models.MatchStateSuspended, suspended.State)

		// Second suspend must fail: the match is no longer in progress.
		_, err = svc.Suspend(context.Background(), 1)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("resume returns the match to in progress", func(t *testing.T) {
		match := inProgressMatch()
		match.State = models.MatchStateSuspended
		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
			UpdateScoringFunc: func(_ context.Context, m *models.Match) error {
				return nil
			},
		}
		svc := NewMatchService(repo, nil, nil, discardLogger())

		resumed, err := svc.Resume(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, models.MatchStateInProgress, resumed.State)
	})

	t.Run("resume of a finished match fails", func(t *testing.T) {
		match := inProgressMatch()
		match.State = models.MatchStateFinished
		repo := &fakeMatchRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
				return match, nil
			},
		}
		svc := NewMatchService(repo, nil, nil, discardLogger())

		_, err := svc.Resume(context.Background(), 1)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestValidateMatch(t *testing.T) {
	match := &models.Match{CalendarID: 9, Round: models.RoundQuarter, Number: 1}
	assert.NoError(t, validateMatch(match))

	assert.ErrorIs(t, validateMatch(&models.Match{Round: models.RoundQuarter, Number: 1}), ErrValidationFailed)
	assert.ErrorIs(t, validateMatch(&models.Match{CalendarID: 9, Round: models.RoundQuarter}), ErrValidationFailed)
	assert.ErrorIs(t, validateMatch(&models.Match{CalendarID: 9, Round: "WARMUP", Number: 1}), ErrValidationFailed)
}
