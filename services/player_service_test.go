package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/repositories"
	"github.com/opencourt/tennis-tour/storage"
)

type fakeUploader struct {
	UploadFunc func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)
	DeleteFunc func(ctx context.Context, key string) error
	deleted    []string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	return f.UploadFunc(ctx, key, contentType, reader)
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, key)
	}
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func validPlayer() *models.Player {
	return &models.Player{
		ID: 7,
		Infos: models.PlayerInfo{
			FirstName: "Ashe",
			LastName:  "Barty",
			Country:   "Australia",
			Category:  models.PlayerCategoryWTA,
		},
	}
}

func TestPlayerServiceValidation(t *testing.T) {
	repo := &fakePlayerRepo{
		CreateFunc: func(_ context.Context, player *models.Player) error {
			return nil
		},
	}
	svc := NewPlayerService(repo, nil)

	t.Run("valid player passes", func(t *testing.T) {
		assert.NoError(t, svc.Create(context.Background(), validPlayer()))
	})

	t.Run("missing name", func(t *testing.T) {
		player := validPlayer()
		player.Infos.LastName = ""
		assert.ErrorIs(t, svc.Create(context.Background(), player), ErrValidationFailed)
	})

	t.Run("unknown category", func(t *testing.T) {
		player := validPlayer()
		player.Infos.Category = "JUNIOR"
		assert.ErrorIs(t, svc.Create(context.Background(), player), ErrValidationFailed)
	})
}

func TestPlayerServicePictures(t *testing.T) {
	t.Run("upload stores the key and decorates the URL", func(t *testing.T) {
		player := validPlayer()
		var storedKey *string
		repo := &fakePlayerRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Player, error) {
				return player, nil
			},
			UpdatePictureKeyFunc: func(_ context.Context, id int, key *string) error {
				storedKey = key
				return nil
			},
		}
		uploader := &fakeUploader{
			UploadFunc: func(_ context.Context, key, contentType string, _ io.Reader) (*storage.UploadResult, error) {
				assert.Equal(t, "image/jpeg", contentType)
				return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
			},
		}
		svc := NewPlayerService(repo, uploader)

		updated, err := svc.UploadPicture(context.Background(), 7, "image/jpeg", strings.NewReader("jpeg-bytes"))
		require.NoError(t, err)

		require.NotNil(t, storedKey)
		assert.Equal(t, "players/7/picture", *storedKey)
		require.NotNil(t, updated.Infos.PictureURL)
		assert.Equal(t, "https://cdn.example.com/players/7/picture", *updated.Infos.PictureURL)
	})

	t.Run("upload without configured storage fails", func(t *testing.T) {
		repo := &fakePlayerRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Player, error) {
				return validPlayer(), nil
			},
		}
		svc := NewPlayerService(repo, nil)

		_, err := svc.UploadPicture(context.Background(), 7, "image/jpeg", strings.NewReader("jpeg-bytes"))
		assert.Error(t, err)
	})

	t.Run("update keeps the stored picture key", func(t *testing.T) {
		stored := validPlayer()
		key := "players/7/picture"
		stored.Infos.PictureKey = &key

		var persisted *models.Player
		repo := &fakePlayerRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Player, error) {
				return stored, nil
			},
			UpdateFunc: func(_ context.Context, player *models.Player) error {
				persisted = player
				return nil
			},
		}
		svc := NewPlayerService(repo, &fakeUploader{})

		edit := validPlayer()
		edit.Infos.FirstName = "Ashleigh"
		require.NoError(t, svc.Update(context.Background(), edit))

		require.NotNil(t, persisted)
		require.NotNil(t, persisted.Infos.PictureKey)
		assert.Equal(t, key, *persisted.Infos.PictureKey)
		require.NotNil(t, edit.Infos.PictureURL)
		assert.Equal(t, "https://cdn.example.com/players/7/picture", *edit.Infos.PictureURL)
	})

	t.Run("create ignores caller-supplied picture fields", func(t *testing.T) {
		var persisted *models.Player
		repo := &fakePlayerRepo{
			CreateFunc: func(_ context.Context, player *models.Player) error {
				persisted = player
				return nil
			},
		}
		svc := NewPlayerService(repo, nil)

		player := validPlayer()
		key := "players/999/picture"
		player.Infos.PictureKey = &key
		require.NoError(t, svc.Create(context.Background(), player))

		require.NotNil(t, persisted)
		assert.Nil(t, persisted.Infos.PictureKey)
		assert.Nil(t, persisted.Infos.PictureURL)
	})

	t.Run("delete removes the stored picture", func(t *testing.T) {
		player := validPlayer()
		key := "players/7/picture"
		player.Infos.PictureKey = &key
		repo := &fakePlayerRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Player, error) {
				return player, nil
			},
			DeleteFunc: func(_ context.Context, id int) error {
				return nil
			},
		}
		uploader := &fakeUploader{}
		svc := NewPlayerService(repo, uploader)

		require.NoError(t, svc.Delete(context.Background(), 7))
		assert.Equal(t, []string{"players/7/picture"}, uploader.deleted)
	})
}

func TestPlayerServiceDrawUnseeded(t *testing.T) {
	t.Run("pool exhaustion maps to the service error", func(t *testing.T) {
		repo := &fakePlayerRepo{
			DrawRandomFunc: func(_ context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error) {
				return nil, repositories.ErrInsufficientPlayers
			},
		}
		svc := NewPlayerService(repo, nil)

		_, err := svc.DrawUnseeded(context.Background(), models.PlayerCategoryATP, 2, nil)
		assert.ErrorIs(t, err, ErrInsufficientPlayerPool)
	})

	t.Run("exclusion list is forwarded", func(t *testing.T) {
		var gotExclude []int
		repo := &fakePlayerRepo{
			DrawRandomFunc: func(_ context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error) {
				gotExclude = exclude
				return []models.Player{{ID: 1}, {ID: 2}}, nil
			},
		}
		svc := NewPlayerService(repo, nil)

		players, err := svc.DrawUnseeded(context.Background(), models.PlayerCategoryATP, 2, []int{5, 6})
		require.NoError(t, err)
		assert.Len(t, players, 2)
		assert.Equal(t, []int{5, 6}, gotExclude)
	})
}
