package services

import (
	"context"

	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/repositories"
)

type fakeCalendarRepo struct {
	CreateFunc  func(ctx context.Context, calendar *models.Calendar) error
	GetByIDFunc func(ctx context.Context, id int) (*models.Calendar, error)
	ListFunc    func(ctx context.Context, filter models.CalendarFilter) ([]*models.Calendar, error)
	CountFunc   func(ctx context.Context, filter models.CalendarFilter) (int, error)
	UpdateFunc  func(ctx context.Context, calendar *models.Calendar) error
	SetDrawFunc func(ctx context.Context, exec repositories.SQLExecutor, id int, draw *models.Draw) error
}

func (f *fakeCalendarRepo) Create(ctx context.Context, calendar *models.Calendar) error {
	return f.CreateFunc(ctx, calendar)
}

func (f *fakeCalendarRepo) GetByID(ctx context.Context, id int) (*models.Calendar, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeCalendarRepo) List(ctx context.Context, filter models.CalendarFilter) ([]*models.Calendar, error) {
	return f.ListFunc(ctx, filter)
}

func (f *fakeCalendarRepo) Count(ctx context.Context, filter models.CalendarFilter) (int, error) {
	return f.CountFunc(ctx, filter)
}

func (f *fakeCalendarRepo) Update(ctx context.Context, calendar *models.Calendar) error {
	return f.UpdateFunc(ctx, calendar)
}

func (f *fakeCalendarRepo) SetDraw(ctx context.Context, exec repositories.SQLExecutor, id int, draw *models.Draw) error {
	return f.SetDrawFunc(ctx, exec, id, draw)
}

type fakeTournamentRepo struct {
	CreateFunc  func(ctx context.Context, tournament *models.Tournament) error
	GetByIDFunc func(ctx context.Context, id int) (*models.Tournament, error)
	ListFunc    func(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error)
	CountFunc   func(ctx context.Context, filter models.TournamentFilter) (int, error)
	UpdateFunc  func(ctx context.Context, tournament *models.Tournament) error
	DeleteFunc  func(ctx context.Context, id int) error
}

func (f *fakeTournamentRepo) Create(ctx context.Context, tournament *models.Tournament) error {
	return f.CreateFunc(ctx, tournament)
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeTournamentRepo) List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error) {
	return f.ListFunc(ctx, filter)
}

func (f *fakeTournamentRepo) Count(ctx context.Context, filter models.TournamentFilter) (int, error) {
	return f.CountFunc(ctx, filter)
}

func (f *fakeTournamentRepo) Update(ctx context.Context, tournament *models.Tournament) error {
	return f.UpdateFunc(ctx, tournament)
}

func (f *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	return f.DeleteFunc(ctx, id)
}

type fakeMatchRepo struct {
	CreateFunc        func(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error
	GetByIDFunc       func(ctx context.Context, id int) (*models.Match, error)
	ListFunc          func(ctx context.Context, filter models.MatchFilter) ([]*models.Match, error)
	CountFunc         func(ctx context.Context, filter models.MatchFilter) (int, error)
	UpdateFunc        func(ctx context.Context, match *models.Match) error
	UpdateScoringFunc func(ctx context.Context, match *models.Match) error
	AssignTeamFunc    func(ctx context.Context, matchID int, slot int, team models.Team) error
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return f.CreateFunc(ctx, exec, match)
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeMatchRepo) List(ctx context.Context, filter models.MatchFilter) ([]*models.Match, error) {
	return f.ListFunc(ctx, filter)
}

func (f *fakeMatchRepo) Count(ctx context.Context, filter models.MatchFilter) (int, error) {
	return f.CountFunc(ctx, filter)
}

func (f *fakeMatchRepo) Update(ctx context.Context, match *models.Match) error {
	return f.UpdateFunc(ctx, match)
}

func (f *fakeMatchRepo) UpdateScoring(ctx context.Context, match *models.Match) error {
	return f.UpdateScoringFunc(ctx, match)
}

func (f *fakeMatchRepo) AssignTeam(ctx context.Context, matchID int, slot int, team models.Team) error {
	return f.AssignTeamFunc(ctx, matchID, slot, team)
}

type fakePlayerRepo struct {
	CreateFunc           func(ctx context.Context, player *models.Player) error
	GetByIDFunc          func(ctx context.Context, id int) (*models.Player, error)
	ListFunc             func(ctx context.Context, filter models.PlayerFilter) ([]*models.Player, error)
	CountFunc            func(ctx context.Context, filter models.PlayerFilter) (int, error)
	UpdateFunc           func(ctx context.Context, player *models.Player) error
	DeleteFunc           func(ctx context.Context, id int) error
	UpdatePictureKeyFunc func(ctx context.Context, id int, key *string) error
	DrawRandomFunc       func(ctx context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error)
}

func (f *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	return f.CreateFunc(ctx, player)
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakePlayerRepo) List(ctx context.Context, filter models.PlayerFilter) ([]*models.Player, error) {
	return f.ListFunc(ctx, filter)
}

func (f *fakePlayerRepo) Count(ctx context.Context, filter models.PlayerFilter) (int, error) {
	return f.CountFunc(ctx, filter)
}

func (f *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	return f.UpdateFunc(ctx, player)
}

func (f *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	return f.DeleteFunc(ctx, id)
}

func (f *fakePlayerRepo) UpdatePictureKey(ctx context.Context, id int, key *string) error {
	return f.UpdatePictureKeyFunc(ctx, id, key)
}

func (f *fakePlayerRepo) DrawRandom(ctx context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error) {
	return f.DrawRandomFunc(ctx, category, count, exclude)
}
