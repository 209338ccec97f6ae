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
	ErrCalendarNotFound = errors.New("calendar entry not found")
	// ErrDrawExists: the calendar entry already carries a draw; drawing
	// is a one-time operation.
	ErrDrawExists = errors.New("calendar entry already drawn")
)

type CalendarRepository interface {
	Create(ctx context.Context, calendar *models.Calendar) error
	GetByID(ctx context.Context, id int) (*models.Calendar, error)
	List(ctx context.Context, filter models.CalendarFilter) ([]*models.Calendar, error)
	Count(ctx context.Context, filter models.CalendarFilter) (int, error)
	Update(ctx context.Context, calendar *models.Calendar) error
	// SetDraw writes the generated brackets, guarded so a second draw
	// of the same calendar entry is rejected at the store level.
	SetDraw(ctx context.Context, exec SQLExecutor, id int, draw *models.Draw) error
}

type postgresCalendarRepository struct {
	db *sql.DB
}

func NewPostgresCalendarRepository(db *sql.DB) CalendarRepository {
	return &postgresCalendarRepository{db: db}
}

const calendarColumns = `id, tournament_id, start_date, end_date, prize_money, draw, created_at, updated_at`

func (r *postgresCalendarRepository) Create(ctx context.Context, calendar *models.Calendar) error {
	query := `
		INSERT INTO calendar (tournament_id, start_date, end_date, prize_money)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		calendar.TournamentID,
		calendar.StartDate,
		calendar.EndDate,
		calendar.PrizeMoney,
	).Scan(&calendar.ID, &calendar.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert calendar entry: %w", err)
	}
	return nil
}

func (r *postgresCalendarRepository) GetByID(ctx context.Context, id int) (*models.Calendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar WHERE id = $1`

	calendar, err := scanCalendar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCalendarNotFound
		}
		return nil, fmt.Errorf("failed to scan calendar entry %d: %w", id, err)
	}
	return calendar, nil
}

func (r *postgresCalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]*models.Calendar, error) {
	query, args := buildCalendarFilterQuery(`SELECT `+calendarColumns+` FROM calendar`, filter, true)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.Calendar, 0)
	for rows.Next() {
		entry, scanErr := scanCalendar(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan calendar row: %w", scanErr)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during calendar rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresCalendarRepository) Count(ctx context.Context, filter models.CalendarFilter) (int, error) {
	query, args := buildCalendarFilterQuery(`SELECT COUNT(*) FROM calendar`, filter, false)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count calendar entries: %w", err)
	}
	return count, nil
}

func (r *postgresCalendarRepository) Update(ctx context.Context, calendar *models.Calendar) error {
	query := `
		UPDATE calendar
		SET tournament_id = $1, start_date = $2, end_date = $3, prize_money = $4, updated_at = NOW()
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		calendar.TournamentID,
		calendar.StartDate,
		calendar.EndDate,
		calendar.PrizeMoney,
		calendar.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update calendar entry %d: %w", calendar.ID, err)
	}
	return checkAffectedRows(result, ErrCalendarNotFound)
}

func (r *postgresCalendarRepository) SetDraw(ctx context.Context, exec SQLExecutor, id int, draw *models.Draw) error {
	data, err := jsonbValue(draw)
	if err != nil {
		return err
	}

	query := `
		UPDATE calendar
		SET draw = $1, updated_at = NOW()
		WHERE id = $2 AND draw IS NULL`

	result, err := exec.ExecContext(ctx, query, data, id)
	if err != nil {
		return fmt.Errorf("failed to persist draw for calendar entry %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		// Either the entry is gone or it was drawn in the meantime.
		var exists bool
		if scanErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM calendar WHERE id = $1)`, id).Scan(&exists); scanErr != nil {
			return fmt.Errorf("failed to inspect calendar entry %d: %w", id, scanErr)
		}
		if !exists {
			return ErrCalendarNotFound
		}
		return ErrDrawExists
	}
	return nil
}

func scanCalendar(row rowScanner) (*models.Calendar, error) {
	var (
		calendar models.Calendar
		draw     []byte
	)
	err := row.Scan(
		&calendar.ID,
		&calendar.TournamentID,
		&calendar.StartDate,
		&calendar.EndDate,
		&calendar.PrizeMoney,
		&draw,
		&calendar.CreatedAt,
		&calendar.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(draw) > 0 {
		calendar.Draw = &models.Draw{}
		if err := scanJSONB(draw, calendar.Draw); err != nil {
			return nil, err
		}
	}
	return &calendar, nil
}

func buildCalendarFilterQuery(base string, filter models.CalendarFilter, paginate bool) (string, []interface{}) {
	var builder strings.Builder
	builder.WriteString(base)
	builder.WriteString(` WHERE TRUE`)

	args := make([]interface{}, 0, 4)
	placeholder := 1

	if filter.TournamentID != nil {
		builder.WriteString(` AND tournament_id = $` + strconv.Itoa(placeholder))
		args = append(args, *filter.TournamentID)
		placeholder++
	}
	if filter.From != nil {
		builder.WriteString(` AND start_date >= $` + strconv.Itoa(placeholder))
		args = append(args, *filter.From)
		placeholder++
	}
	if filter.To != nil {
		builder.WriteString(` AND end_date <= $` + strconv.Itoa(placeholder))
		args = append(args, *filter.To)
		placeholder++
	}

	if paginate {
		builder.WriteString(` ORDER BY start_date ASC, id ASC`)
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
