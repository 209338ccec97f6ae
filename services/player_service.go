package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/repositories"
	"github.com/opencourt/tennis-tour/storage"
)

type PlayerService interface {
	List(ctx context.Context, filter models.PlayerFilter) ([]*models.Player, error)
	Count(ctx context.Context, filter models.PlayerFilter) (int, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
	UploadPicture(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Player, error)

	// DrawUnseeded implements brackets.PlayerPool over the repository.
	DrawUnseeded(ctx context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		uploader:   uploader,
	}
}

func (s *playerService) List(ctx context.Context, filter models.PlayerFilter) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for _, player := range players {
		s.decoratePictureURL(player)
	}
	return players, nil
}

func (s *playerService) Count(ctx context.Context, filter models.PlayerFilter) (int, error) {
	return s.playerRepo.Count(ctx, filter)
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	s.decoratePictureURL(player)
	return player, nil
}

func (s *playerService) Create(ctx context.Context, player *models.Player) error {
	if err := validatePlayer(player); err != nil {
		return err
	}
	// The picture fields are owned by the upload flow, not the caller.
	player.Infos.PictureKey = nil
	player.Infos.PictureURL = nil
	return s.playerRepo.Create(ctx, player)
}

func (s *playerService) Update(ctx context.Context, player *models.Player) error {
	if err := validatePlayer(player); err != nil {
		return err
	}

	current, err := s.playerRepo.GetByID(ctx, player.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	// Carry the stored picture key over so a profile edit cannot
	// detach the uploaded picture. The URL is derived, never stored.
	player.Infos.PictureKey = current.Infos.PictureKey
	player.Infos.PictureURL = nil

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	s.decoratePictureURL(player)
	return nil
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	player, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}

	if s.uploader != nil && player.Infos.PictureKey != nil {
		// Best effort: the player row is already gone.
		_ = s.uploader.Delete(ctx, *player.Infos.PictureKey)
	}
	return nil
}

func (s *playerService) UploadPicture(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Player, error) {
	player, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("picture uploads are not configured")
	}

	key := fmt.Sprintf("players/%d/picture", id)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload picture for player %d: %w", id, err)
	}

	if err := s.playerRepo.UpdatePictureKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}

	player.Infos.PictureKey = &result.Key
	s.decoratePictureURL(player)
	return player, nil
}

func (s *playerService) DrawUnseeded(ctx context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error) {
	players, err := s.playerRepo.DrawRandom(ctx, category, count, exclude)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientPlayers) {
			return nil, fmt.Errorf("%w: %v", ErrInsufficientPlayerPool, err)
		}
		return nil, err
	}
	return players, nil
}

func (s *playerService) decoratePictureURL(player *models.Player) {
	if s.uploader == nil || player.Infos.PictureKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*player.Infos.PictureKey)
	player.Infos.PictureURL = &url
}

func validatePlayer(player *models.Player) error {
	switch {
	case player.Infos.FirstName == "" || player.Infos.LastName == "":
		return fmt.Errorf("%w: player name is required", ErrValidationFailed)
	case player.Infos.Category != models.PlayerCategoryATP && player.Infos.Category != models.PlayerCategoryWTA:
		return fmt.Errorf("%w: unknown player category %q", ErrValidationFailed, player.Infos.Category)
	}
	return nil
}
