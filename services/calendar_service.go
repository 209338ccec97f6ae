package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/opencourt/tennis-tour/brackets"
	"github.com/opencourt/tennis-tour/live"
	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/repositories"
)

type CalendarService interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]*models.Calendar, error)
	Count(ctx context.Context, filter models.CalendarFilter) (int, error)
	GetByID(ctx context.Context, id int) (*models.Calendar, error)
	Create(ctx context.Context, calendar *models.Calendar) error
	Update(ctx context.Context, calendar *models.Calendar) error

	// DrawMatches runs the one-time draw of a calendar entry: all four
	// brackets are generated and persisted in a single transaction.
	DrawMatches(ctx context.Context, id int) (*models.Calendar, error)
	GetDraw(ctx context.Context, id int) (*models.Draw, error)
	// GetMatchIDByPosition resolves a bracket position (0-based) to the
	// match id stored there.
	GetMatchIDByPosition(ctx context.Context, id int, matchType models.MatchType, category models.PlayerCategory, position int) (int, error)
}

type calendarService struct {
	db             *sql.DB
	calendarRepo   repositories.CalendarRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	pool           brackets.PlayerPool
	rounds         brackets.RoundTable
	hub            *live.Hub
	logger         *slog.Logger
}

func NewCalendarService(
	db *sql.DB,
	calendarRepo repositories.CalendarRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	pool brackets.PlayerPool,
	rounds brackets.RoundTable,
	hub *live.Hub,
	logger *slog.Logger,
) CalendarService {
	return &calendarService{
		db:             db,
		calendarRepo:   calendarRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		pool:           pool,
		rounds:         rounds,
		hub:            hub,
		logger:         logger,
	}
}

func (s *calendarService) List(ctx context.Context, filter models.CalendarFilter) ([]*models.Calendar, error) {
	entries, err := s.calendarRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		s.attachTournament(ctx, entry)
	}
	return entries, nil
}

func (s *calendarService) Count(ctx context.Context, filter models.CalendarFilter) (int, error) {
	return s.calendarRepo.Count(ctx, filter)
}

func (s *calendarService) GetByID(ctx context.Context, id int) (*models.Calendar, error) {
	calendar, err := s.calendarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCalendarNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, err
	}
	s.attachTournament(ctx, calendar)
	return calendar, nil
}

func (s *calendarService) Create(ctx context.Context, calendar *models.Calendar) error {
	if err := s.validateCalendar(ctx, calendar); err != nil {
		return err
	}
	return s.calendarRepo.Create(ctx, calendar)
}

func (s *calendarService) Update(ctx context.Context, calendar *models.Calendar) error {
	if err := s.validateCalendar(ctx, calendar); err != nil {
		return err
	}
	if err := s.calendarRepo.Update(ctx, calendar); err != nil {
		if errors.Is(err, repositories.ErrCalendarNotFound) {
			return ErrCalendarNotFound
		}
		return err
	}
	return nil
}

func (s *calendarService) DrawMatches(ctx context.Context, id int) (*models.Calendar, error) {
	calendar, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if calendar.Draw != nil {
		return nil, ErrAlreadyDrawn
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, calendar.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin draw transaction: %w", err)
	}

	// Creating every match of the draw and recording the brackets share
	// one transaction, so a failed draw leaves nothing behind.
	creator := &txMatchCreator{tx: tx, matches: s.matchRepo}
	generator := brackets.NewDrawGenerator(s.pool, creator, s.rounds)

	draw, err := generator.Generate(ctx, tournament.Category, calendar.ID)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, ErrInsufficientPlayerPool) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to generate draw for calendar entry %d: %w", id, err)
	}

	if err := s.calendarRepo.SetDraw(ctx, tx, calendar.ID, draw); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repositories.ErrDrawExists) {
			return nil, ErrAlreadyDrawn
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit draw for calendar entry %d: %w", id, err)
	}

	calendar.Draw = draw
	s.logger.Info("draw generated",
		slog.Int("calendar_id", calendar.ID),
		slog.String("category", string(tournament.Category)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.CalendarRoom(calendar.ID), live.Message{
			Type:    live.MessageBracketUpdated,
			Payload: calendar,
		})
	}
	return calendar, nil
}

func (s *calendarService) GetDraw(ctx context.Context, id int) (*models.Draw, error) {
	calendar, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if calendar.Draw == nil {
		return nil, ErrDrawNotFound
	}
	return calendar.Draw, nil
}

func (s *calendarService) GetMatchIDByPosition(ctx context.Context, id int, matchType models.MatchType, category models.PlayerCategory, position int) (int, error) {
	draw, err := s.GetDraw(ctx, id)
	if err != nil {
		return 0, err
	}

	bracket := draw.Bracket(matchType, category)
	if position < 0 || position >= len(bracket) {
		return 0, ErrMatchNotFound
	}
	return bracket[position], nil
}

func (s *calendarService) attachTournament(ctx context.Context, calendar *models.Calendar) {
	tournament, err := s.tournamentRepo.GetByID(ctx, calendar.TournamentID)
	if err != nil {
		s.logger.Warn("failed to attach tournament to calendar entry",
			slog.Int("calendar_id", calendar.ID),
			slog.Int("tournament_id", calendar.TournamentID),
			slog.Any("error", err))
		return
	}
	calendar.Tournament = tournament
}

func (s *calendarService) validateCalendar(ctx context.Context, calendar *models.Calendar) error {
	if !calendar.EndDate.After(calendar.StartDate) {
		return fmt.Errorf("%w: calendar end date must be after start date", ErrValidationFailed)
	}
	if calendar.PrizeMoney < 0 {
		return fmt.Errorf("%w: prize money must not be negative", ErrValidationFailed)
	}
	if _, err := s.tournamentRepo.GetByID(ctx, calendar.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}

// txMatchCreator adapts the match repository to brackets.MatchCreator
// inside the draw transaction. The generator writes from four
// goroutines while database/sql transactions are single-threaded, so
// creates are serialized here.
type txMatchCreator struct {
	tx      *sql.Tx
	matches repositories.MatchRepository
	mu      sync.Mutex
}

func (c *txMatchCreator) CreateMatch(ctx context.Context, match *models.Match) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.matches.Create(ctx, c.tx, match); err != nil {
		return 0, err
	}
	return match.ID, nil
}
