package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/opencourt/tennis-tour/brackets"
	"github.com/opencourt/tennis-tour/live"
	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/repositories"
)

const (
	advancementBuffer   = 64
	advancementAttempts = 3
	advancementBackoff  = time.Second
)

// ScorePointResult is what a scoring request produced: the match after
// the point and the engine's outcome.
type ScorePointResult struct {
	Match   *models.Match         `json:"match"`
	Outcome brackets.ScoreOutcome `json:"outcome"`
}

type MatchService interface {
	List(ctx context.Context, filter models.MatchFilter) ([]*models.Match, error)
	Count(ctx context.Context, filter models.MatchFilter) (int, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	Create(ctx context.Context, match *models.Match) error
	Update(ctx context.Context, match *models.Match) error

	// ScorePoint applies one point to a match and, when the point
	// finishes a non-final match, queues the winner's advancement.
	ScorePoint(ctx context.Context, matchID int, playerID int) (*ScorePointResult, error)
	Suspend(ctx context.Context, matchID int) (*models.Match, error)
	Resume(ctx context.Context, matchID int) (*models.Match, error)

	// RunAdvancements consumes queued match-finished events until the
	// context is canceled. Run it from exactly one goroutine.
	RunAdvancements(ctx context.Context)
}

type matchService struct {
	matchRepo   repositories.MatchRepository
	advancement AdvancementService
	hub         *live.Hub
	logger      *slog.Logger

	finished chan models.MatchFinished

	// locks serializes scoring per match id; concurrent point requests
	// for one match would corrupt the games/sets derivation. Entries
	// are dropped once a match finishes.
	locksMu sync.Mutex
	locks   map[int]*sync.Mutex
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	advancement AdvancementService,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:   matchRepo,
		advancement: advancement,
		hub:         hub,
		logger:      logger,
		finished:    make(chan models.MatchFinished, advancementBuffer),
		locks:       make(map[int]*sync.Mutex),
	}
}

func (s *matchService) List(ctx context.Context, filter models.MatchFilter) ([]*models.Match, error) {
	return s.matchRepo.List(ctx, filter)
}

func (s *matchService) Count(ctx context.Context, filter models.MatchFilter) (int, error) {
	return s.matchRepo.Count(ctx, filter)
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) Create(ctx context.Context, match *models.Match) error {
	if err := validateMatch(match); err != nil {
		return err
	}
	if match.State == "" {
		match.State = models.MatchStateNotBegun
	}
	return s.matchRepo.Create(ctx, nil, match)
}

func (s *matchService) Update(ctx context.Context, match *models.Match) error {
	if err := validateMatch(match); err != nil {
		return err
	}
	if err := s.matchRepo.Update(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

func (s *matchService) ScorePoint(ctx context.Context, matchID int, playerID int) (*ScorePointResult, error) {
	lock := s.matchLock(matchID)
	lock.Lock()
	defer lock.Unlock()

	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	result := brackets.ScorePoint(match, playerID, time.Now().UTC())

	// The rejected-state path leaves the match untouched; every other
	// outcome may at least have initialized the score document.
	if result.Outcome != brackets.OutcomeRejectedState {
		if err := s.matchRepo.UpdateScoring(ctx, match); err != nil {
			return nil, err
		}
	}

	switch result.Outcome {
	case brackets.OutcomePointScored:
		s.broadcast(match, live.MessageScoreUpdated)
	case brackets.OutcomeMatchFinished:
		s.broadcast(match, live.MessageMatchFinished)
		// A finished match takes no more points, so its lock entry can
		// go. Late waiters still hold the old mutex and only re-read.
		s.releaseMatchLock(matchID)
	default:
		s.logger.Warn("point request rejected",
			slog.Int("match_id", matchID),
			slog.Int("player_id", playerID),
			slog.String("outcome", string(result.Outcome)))
	}

	if result.Finished != nil {
		// Scoring never blocks on advancement; the worker picks the
		// event up. A full queue is loud, not silent.
		select {
		case s.finished <- *result.Finished:
		default:
			s.logger.Error("advancement queue full, dropping event",
				slog.String("event_id", result.Finished.EventID),
				slog.Int("match_id", result.Finished.MatchID))
		}
	}

	return &ScorePointResult{Match: match, Outcome: result.Outcome}, nil
}

func (s *matchService) Suspend(ctx context.Context, matchID int) (*models.Match, error) {
	return s.setState(ctx, matchID, models.MatchStateInProgress, models.MatchStateSuspended)
}

func (s *matchService) Resume(ctx context.Context, matchID int) (*models.Match, error) {
	return s.setState(ctx, matchID, models.MatchStateSuspended, models.MatchStateInProgress)
}

func (s *matchService) setState(ctx context.Context, matchID int, from, to models.MatchState) (*models.Match, error) {
	lock := s.matchLock(matchID)
	lock.Lock()
	defer lock.Unlock()

	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.State != from {
		return nil, fmt.Errorf("%w: cannot move match %d from %s to %s",
			ErrValidationFailed, matchID, match.State, to)
	}

	match.State = to
	if err := s.matchRepo.UpdateScoring(ctx, match); err != nil {
		return nil, err
	}
	s.broadcast(match, live.MessageScoreUpdated)
	return match, nil
}

func (s *matchService) RunAdvancements(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-s.finished:
			s.handleFinished(ctx, event)
		}
	}
}

func (s *matchService) handleFinished(ctx context.Context, event models.MatchFinished) {
	var err error
	for attempt := 1; attempt <= advancementAttempts; attempt++ {
		if _, err = s.advancement.Advance(ctx, event); err == nil {
			return
		}
		if errors.Is(err, brackets.ErrAdvancementRange) || errors.Is(err, ErrDuplicateAssignment) {
			// Deterministic failures, retrying cannot help.
			break
		}
		s.logger.Warn("advancement attempt failed",
			slog.String("event_id", event.EventID),
			slog.Int("attempt", attempt),
			slog.Any("error", err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(advancementBackoff * time.Duration(attempt)):
		}
	}

	s.logger.Error("failed to advance match winner",
		slog.String("event_id", event.EventID),
		slog.Int("match_id", event.MatchID),
		slog.Int("number", event.Number),
		slog.Any("error", err))
}

func (s *matchService) broadcast(match *models.Match, messageType string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(live.CalendarRoom(match.CalendarID), live.Message{
		Type:    messageType,
		Payload: match,
	})
}

func (s *matchService) matchLock(matchID int) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[matchID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[matchID] = lock
	}
	return lock
}

func (s *matchService) releaseMatchLock(matchID int) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	delete(s.locks, matchID)
}

func validateMatch(match *models.Match) error {
	if match.CalendarID == 0 {
		return fmt.Errorf("%w: match calendar reference is required", ErrValidationFailed)
	}
	if match.Number < 1 {
		return fmt.Errorf("%w: match number must be positive", ErrValidationFailed)
	}
	switch match.Round {
	case models.RoundR1, models.RoundR2, models.RoundR3, models.RoundEighth,
		models.RoundQuarter, models.RoundSemi, models.RoundFinal:
	default:
		return fmt.Errorf("%w: unknown round %q", ErrValidationFailed, match.Round)
	}
	return nil
}
