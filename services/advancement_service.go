package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opencourt/tennis-tour/brackets"
	"github.com/opencourt/tennis-tour/live"
	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/repositories"
)

// AdvancementService threads the winner of a finished match into the
// correct slot of the next round's match.
type AdvancementService interface {
	Advance(ctx context.Context, event models.MatchFinished) (brackets.Placement, error)
}

type advancementService struct {
	calendarRepo   repositories.CalendarRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	rounds         brackets.RoundTable
	hub            *live.Hub
	logger         *slog.Logger
}

func NewAdvancementService(
	calendarRepo repositories.CalendarRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	rounds brackets.RoundTable,
	hub *live.Hub,
	logger *slog.Logger,
) AdvancementService {
	return &advancementService{
		calendarRepo:   calendarRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		rounds:         rounds,
		hub:            hub,
		logger:         logger,
	}
}

// Advance is idempotent under event redelivery: finding the target
// slot already filled with the same team is a no-op, while a different
// occupant is surfaced as a conflict. Out-of-range numbers and lookup
// misses are hard errors; a winner must never be dropped silently.
func (s *advancementService) Advance(ctx context.Context, event models.MatchFinished) (brackets.Placement, error) {
	calendar, err := s.calendarRepo.GetByID(ctx, event.CalendarID)
	if err != nil {
		if errors.Is(err, repositories.ErrCalendarNotFound) {
			return brackets.Placement{}, ErrCalendarNotFound
		}
		return brackets.Placement{}, err
	}
	if calendar.Draw == nil {
		return brackets.Placement{}, fmt.Errorf("%w: calendar entry %d", ErrDrawNotFound, calendar.ID)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, calendar.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return brackets.Placement{}, ErrTournamentNotFound
		}
		return brackets.Placement{}, err
	}

	nextMatchID, placement, err := brackets.NextMatchID(s.rounds(tournament.Category), calendar.Draw, event)
	if err != nil {
		return brackets.Placement{}, err
	}

	team := models.Team{
		Number:  placement.TeamSlot,
		Player1: event.Team.Player1,
		Player2: event.Team.Player2,
	}

	if err := s.matchRepo.AssignTeam(ctx, nextMatchID, placement.TeamSlot, team); err != nil {
		if errors.Is(err, repositories.ErrTeamSlotOccupied) {
			return s.resolveOccupiedSlot(ctx, event, nextMatchID, placement, team)
		}
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return brackets.Placement{}, fmt.Errorf("%w: next match %d", ErrMatchNotFound, nextMatchID)
		}
		return brackets.Placement{}, err
	}

	s.logger.Info("winner advanced",
		slog.String("event_id", event.EventID),
		slog.Int("match_id", event.MatchID),
		slog.Int("next_match_id", nextMatchID),
		slog.Int("position", placement.Position),
		slog.Int("team_slot", placement.TeamSlot))

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.CalendarRoom(event.CalendarID), live.Message{
			Type: live.MessageBracketUpdated,
			Payload: map[string]interface{}{
				"match_id":      nextMatchID,
				"position":      placement.Position,
				"team_slot":     placement.TeamSlot,
				"advanced_from": event.MatchID,
			},
		})
	}
	return placement, nil
}

func (s *advancementService) resolveOccupiedSlot(ctx context.Context, event models.MatchFinished, nextMatchID int, placement brackets.Placement, team models.Team) (brackets.Placement, error) {
	next, err := s.matchRepo.GetByID(ctx, nextMatchID)
	if err != nil {
		return brackets.Placement{}, err
	}

	occupant := next.Team1
	if placement.TeamSlot == 2 {
		occupant = next.Team2
	}
	if occupant.SamePlayers(team) {
		// Replayed event: the winner is already in place.
		s.logger.Info("advancement already applied, ignoring replay",
			slog.String("event_id", event.EventID),
			slog.Int("next_match_id", nextMatchID))
		return placement, nil
	}
	return brackets.Placement{}, fmt.Errorf("%w: match %d slot %d", ErrDuplicateAssignment, nextMatchID, placement.TeamSlot)
}
