package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opencourt/tennis-tour/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error)
	Count(ctx context.Context, filter models.TournamentFilter) (int, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, creation_year, category, prize_money, country, surface, created_at, updated_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, creation_year, category, prize_money, country, surface)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.CreationYear,
		tournament.Category,
		tournament.PrizeMoney,
		tournament.Country,
		tournament.Surface,
	).Scan(&tournament.ID, &tournament.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	tournament, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error) {
	query, args := buildTournamentFilterQuery(`SELECT `+tournamentColumns+` FROM tournaments`, filter, true)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		tournament, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, tournament)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Count(ctx context.Context, filter models.TournamentFilter) (int, error) {
	query, args := buildTournamentFilterQuery(`SELECT COUNT(*) FROM tournaments`, filter, false)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, tournament *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $1, creation_year = $2, category = $3, prize_money = $4,
		    country = $5, surface = $6, updated_at = NOW()
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		tournament.Name,
		tournament.CreationYear,
		tournament.Category,
		tournament.PrizeMoney,
		tournament.Country,
		tournament.Surface,
		tournament.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d: %w", tournament.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var tournament models.Tournament
	err := row.Scan(
		&tournament.ID,
		&tournament.Name,
		&tournament.CreationYear,
		&tournament.Category,
		&tournament.PrizeMoney,
		&tournament.Country,
		&tournament.Surface,
		&tournament.CreatedAt,
		&tournament.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func buildTournamentFilterQuery(base string, filter models.TournamentFilter, paginate bool) (string, []interface{}) {
	var builder strings.Builder
	builder.WriteString(base)
	builder.WriteString(` WHERE TRUE`)

	args := make([]interface{}, 0, 4)
	placeholder := 1

	if filter.Category != nil {
		builder.WriteString(` AND category = $` + strconv.Itoa(placeholder))
		args = append(args, *filter.Category)
		placeholder++
	}
	if filter.Surface != nil {
		builder.WriteString(` AND surface = $` + strconv.Itoa(placeholder))
		args = append(args, *filter.Surface)
		placeholder++
	}
	if filter.Name != "" {
		builder.WriteString(` AND name ILIKE $` + strconv.Itoa(placeholder))
		args = append(args, "%"+filter.Name+"%")
		placeholder++
	}

	if paginate {
		builder.WriteString(` ORDER BY id ASC`)
		if filter.Results > 0 {
			builder.WriteString(` LIMIT $` + strconv.Itoa(placeholder))
			args = append(args, filter.Results)
			placeholder++
			builder.WriteString(` OFFSET $` + strconv.Itoa(placeholder))
			args = append(args, filter.Skip*filter.Results)
		}
	}

	return builder.String(), args
}
