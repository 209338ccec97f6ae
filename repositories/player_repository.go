package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/opencourt/tennis-tour/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	// ErrInsufficientPlayers: the pool cannot supply the requested
	// number of eligible players for a draw.
	ErrInsufficientPlayers = errors.New("not enough eligible players in the pool")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, filter models.PlayerFilter) ([]*models.Player, error)
	Count(ctx context.Context, filter models.PlayerFilter) (int, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
	UpdatePictureKey(ctx context.Context, id int, key *string) error
	DrawRandom(ctx context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, infos, style, pro_since, created_at, updated_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	infos, err := jsonbValue(player.Infos)
	if err != nil {
		return err
	}
	style, err := jsonbValue(player.Style)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO players (infos, style, pro_since)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query, infos, style, player.ProSince).
		Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %d: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]*models.Player, error) {
	query, args := buildPlayerFilterQuery(`SELECT `+playerColumns+` FROM players`, filter, true)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, player)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Count(ctx context.Context, filter models.PlayerFilter) (int, error) {
	query, args := buildPlayerFilterQuery(`SELECT COUNT(*) FROM players`, filter, false)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	infos, err := jsonbValue(player.Infos)
	if err != nil {
		return err
	}
	style, err := jsonbValue(player.Style)
	if err != nil {
		return err
	}

	query := `
		UPDATE players
		SET infos = $1, style = $2, pro_since = $3, updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, infos, style, player.ProSince, player.ID)
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", player.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePictureKey(ctx context.Context, id int, key *string) error {
	query := `
		UPDATE players
		SET infos = jsonb_set(infos, '{picture_key}', to_jsonb($1::text), true), updated_at = NOW()
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return fmt.Errorf("failed to update picture key for player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// DrawRandom picks count players of a category uniformly at random,
// skipping the excluded ids. Short pools are an error so a draw never
// silently produces an under-filled bracket.
func (r *postgresPlayerRepository) DrawRandom(ctx context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE infos->>'category' = $1
		  AND NOT (id = ANY($2))
		ORDER BY random()
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, string(category), drawExcludeArg(exclude), count)
	if err != nil {
		return nil, fmt.Errorf("failed to draw players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0, count)
	for rows.Next() {
		player, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan drawn player: %w", scanErr)
		}
		players = append(players, *player)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during drawn player rows iteration: %w", err)
	}

	if len(players) < count {
		return nil, fmt.Errorf("%w: wanted %d %s players, found %d",
			ErrInsufficientPlayers, count, category, len(players))
	}
	return players, nil
}

// drawExcludeArg always binds a real array: pq.Array turns a nil slice
// into SQL NULL, and NOT (id = ANY(NULL)) matches no rows at all.
func drawExcludeArg(exclude []int) driver.Valuer {
	if len(exclude) == 0 {
		exclude = []int{}
	}
	return pq.Array(exclude)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var (
		player models.Player
		infos  []byte
		style  []byte
	)
	if err := row.Scan(&player.ID, &infos, &style, &player.ProSince, &player.CreatedAt, &player.UpdatedAt); err != nil {
		return nil, err
	}
	if err := scanJSONB(infos, &player.Infos); err != nil {
		return nil, err
	}
	if err := scanJSONB(style, &player.Style); err != nil {
		return nil, err
	}
	return &player, nil
}

func buildPlayerFilterQuery(base string, filter models.PlayerFilter, paginate bool) (string, []interface{}) {
	var builder strings.Builder
	builder.WriteString(base)
	builder.WriteString(` WHERE TRUE`)

	args := make([]interface{}, 0, 4)
	placeholder := 1

	if filter.Category != nil {
		builder.WriteString(` AND infos->>'category' = $` + strconv.Itoa(placeholder))
		args = append(args, string(*filter.Category))
		placeholder++
	}
	if filter.Name != "" {
		builder.WriteString(` AND infos->>'last_name' ILIKE $` + strconv.Itoa(placeholder))
		args = append(args, "%"+filter.Name+"%")
		placeholder++
	}
	if len(filter.Exclude) > 0 {
		builder.WriteString(` AND NOT (id = ANY($` + strconv.Itoa(placeholder) + `))`)
		args = append(args, pq.Array(filter.Exclude))
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
