package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/repositories"
)

type TournamentService interface {
	List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error)
	Count(ctx context.Context, filter models.TournamentFilter) (int, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	Create(ctx context.Context, tournament *models.Tournament) error
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id int) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo}
}

func (s *tournamentService) List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) Count(ctx context.Context, filter models.TournamentFilter) (int, error) {
	return s.tournamentRepo.Count(ctx, filter)
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) Create(ctx context.Context, tournament *models.Tournament) error {
	if err := validateTournament(tournament); err != nil {
		return err
	}
	return s.tournamentRepo.Create(ctx, tournament)
}

func (s *tournamentService) Update(ctx context.Context, tournament *models.Tournament) error {
	if err := validateTournament(tournament); err != nil {
		return err
	}
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}

func validateTournament(tournament *models.Tournament) error {
	switch {
	case tournament.Name == "":
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	case tournament.CreationYear < 1877 || tournament.CreationYear > time.Now().Year():
		// 1877: first edition of Wimbledon.
		return fmt.Errorf("%w: implausible creation year %d", ErrValidationFailed, tournament.CreationYear)
	case tournament.PrizeMoney < 0:
		return fmt.Errorf("%w: prize money must not be negative", ErrValidationFailed)
	}

	switch tournament.Category {
	case models.CategoryGrandSlam, models.CategoryMasters, models.CategoryMaster1000,
		models.CategoryT250, models.CategoryChallenger125:
	default:
		return fmt.Errorf("%w: unknown tournament category %q", ErrValidationFailed, tournament.Category)
	}

	switch tournament.Surface {
	case models.SurfaceClay, models.SurfaceGrass, models.SurfaceOutdoorHard, models.SurfaceIndoorHard:
	default:
		return fmt.Errorf("%w: unknown surface %q", ErrValidationFailed, tournament.Surface)
	}
	return nil
}
