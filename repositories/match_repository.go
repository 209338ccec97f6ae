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

var (
	ErrMatchNotFound = errors.New("match not found")
	// ErrTeamSlotOccupied: the target slot already carries players.
	// Advancement treats this as the duplicate-delivery signal.
	ErrTeamSlotOccupied = errors.New("team already assigned")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter models.MatchFilter) ([]*models.Match, error)
	Count(ctx context.Context, filter models.MatchFilter) (int, error)
	Update(ctx context.Context, match *models.Match) error
	// UpdateScoring persists the mutable scoring state of a match in
	// one statement: teams (winner flag), score document, state, dates.
	UpdateScoring(ctx context.Context, match *models.Match) error
	// AssignTeam fills one team slot of a match, rejecting the write
	// when the slot already has players.
	AssignTeam(ctx context.Context, matchID int, slot int, team models.Team) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, calendar_id, round, number, team1, team2, score, state, start_date, end_date, created_at, updated_at`

// Create inserts a match, either on the pool or inside the caller's
// transaction when exec is non-nil.
func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	team1, err := jsonbValue(match.Team1)
	if err != nil {
		return err
	}
	team2, err := jsonbValue(match.Team2)
	if err != nil {
		return err
	}
	var score interface{}
	if match.Score != nil {
		if score, err = jsonbValue(match.Score); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO matches (calendar_id, round, number, team1, team2, score, state, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err = exec.QueryRowContext(ctx, query,
		match.CalendarID,
		match.Round,
		match.Number,
		team1,
		team2,
		score,
		match.State,
		match.StartDate,
		match.EndDate,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter models.MatchFilter) ([]*models.Match, error) {
	query, args := buildMatchFilterQuery(`SELECT `+matchColumns+` FROM matches`, filter, true)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) Count(ctx context.Context, filter models.MatchFilter) (int, error) {
	query, args := buildMatchFilterQuery(`SELECT COUNT(*) FROM matches`, filter, false)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	team1, err := jsonbValue(match.Team1)
	if err != nil {
		return err
	}
	team2, err := jsonbValue(match.Team2)
	if err != nil {
		return err
	}
	var score interface{}
	if match.Score != nil {
		if score, err = jsonbValue(match.Score); err != nil {
			return err
		}
	}

	query := `
		UPDATE matches
		SET round = $1, number = $2, team1 = $3, team2 = $4, score = $5,
		    state = $6, start_date = $7, end_date = $8, updated_at = NOW()
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		match.Round,
		match.Number,
		team1,
		team2,
		score,
		match.State,
		match.StartDate,
		match.EndDate,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScoring(ctx context.Context, match *models.Match) error {
	team1, err := jsonbValue(match.Team1)
	if err != nil {
		return err
	}
	team2, err := jsonbValue(match.Team2)
	if err != nil {
		return err
	}
	score, err := jsonbValue(match.Score)
	if err != nil {
		return err
	}

	query := `
		UPDATE matches
		SET team1 = $1, team2 = $2, score = $3, state = $4,
		    start_date = $5, end_date = $6, updated_at = NOW()
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		team1,
		team2,
		score,
		match.State,
		match.StartDate,
		match.EndDate,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scoring of match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) AssignTeam(ctx context.Context, matchID int, slot int, team models.Team) error {
	if slot != 1 && slot != 2 {
		return fmt.Errorf("invalid team slot %d", slot)
	}
	column := "team1"
	if slot == 2 {
		column = "team2"
	}

	data, err := jsonbValue(team)
	if err != nil {
		return err
	}

	// The guard only writes into a slot that has no players yet, which
	// makes duplicate advancement deliveries detectable.
	query := `
		UPDATE matches
		SET ` + column + ` = $1, updated_at = NOW()
		WHERE id = $2
		  AND ` + column + `->>'player1' IS NULL
		  AND ` + column + `->>'player2' IS NULL`

	result, err := r.db.ExecContext(ctx, query, data, matchID)
	if err != nil {
		return fmt.Errorf("failed to assign team to match %d: %w", matchID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if scanErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, matchID).Scan(&exists); scanErr != nil {
			return fmt.Errorf("failed to inspect match %d: %w", matchID, scanErr)
		}
		if !exists {
			return ErrMatchNotFound
		}
		return ErrTeamSlotOccupied
	}
	return nil
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		match models.Match
		team1 []byte
		team2 []byte
		score []byte
	)
	err := row.Scan(
		&match.ID,
		&match.CalendarID,
		&match.Round,
		&match.Number,
		&team1,
		&team2,
		&score,
		&match.State,
		&match.StartDate,
		&match.EndDate,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := scanJSONB(team1, &match.Team1); err != nil {
		return nil, err
	}
	if err := scanJSONB(team2, &match.Team2); err != nil {
		return nil, err
	}
	if len(score) > 0 {
		match.Score = &models.Score{}
		if err := scanJSONB(score, match.Score); err != nil {
			return nil, err
		}
	}
	return &match, nil
}

func buildMatchFilterQuery(base string, filter models.MatchFilter, paginate bool) (string, []interface{}) {
	var builder strings.Builder
	builder.WriteString(base)
	builder.WriteString(` WHERE TRUE`)

	args := make([]interface{}, 0, 4)
	placeholder := 1

	if filter.CalendarID != nil {
		builder.WriteString(` AND calendar_id = $` + strconv.Itoa(placeholder))
		args = append(args, *filter.CalendarID)
		placeholder++
	}
	if filter.State != nil {
		builder.WriteString(` AND state = $` + strconv.Itoa(placeholder))
		args = append(args, *filter.State)
		placeholder++
	}

	if paginate {
		builder.WriteString(` ORDER BY calendar_id ASC, number ASC`)
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
