package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nholding/clearvue/internal/audit"
	"github.com/nholding/clearvue/internal/period/domain"
	platform "github.com/nholding/clearvue/internal/repository"
)

// ErrCalendarNotFound is returned when no calendar has been persisted for a year.
var ErrCalendarNotFound = errors.New("financial calendar not found")

// Schema creates the fiscal_periods table. One row per (year, month).
const Schema = `
CREATE TABLE IF NOT EXISTS fiscal_periods (
	year             INTEGER     NOT NULL,
	month            SMALLINT    NOT NULL CHECK (month BETWEEN 1 AND 12),
	label            TEXT        NOT NULL,
	start_date       DATE        NOT NULL,
	end_date         DATE        NOT NULL,
	quarter          SMALLINT    NOT NULL CHECK (quarter BETWEEN 1 AND 4),
	audit_created_by TEXT        NOT NULL,
	audit_created_at TIMESTAMPTZ NOT NULL,
	audit_updated_by TEXT,
	audit_updated_at TIMESTAMPTZ,
	PRIMARY KEY (year, month)
)`

// PeriodRepository defines how financial calendars are stored and retrieved
// from a persistence layer.
type PeriodRepository interface {
	// SaveCalendar upserts the twelve periods of year.
	SaveCalendar(ctx context.Context, year int, periods []domain.FiscalPeriod, user string) error

	// FindByYear returns the persisted calendar for year, ordered by month,
	// or ErrCalendarNotFound.
	FindByYear(ctx context.Context, year int) ([]domain.FiscalPeriod, error)
}

// PostgresPeriodRepository persists calendars in PostgreSQL through lib/pq.
type PostgresPeriodRepository struct {
	db *sql.DB
}

// NewPostgresPeriodRepository wraps an open connection pool.
func NewPostgresPeriodRepository(db *sql.DB) *PostgresPeriodRepository {
	return &PostgresPeriodRepository{db: db}
}

// NewRdsPeriodRepository connects to RDS with an IAM auth token.
func NewRdsPeriodRepository(ctx context.Context, cfg *platform.Config) (*PostgresPeriodRepository, error) {
	rdsClient, err := cfg.NewRDSClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed creating the AWS RDS Client: %w", err)
	}

	return &PostgresPeriodRepository{db: rdsClient.Client}, nil
}

// Ping verifies the database is reachable.
func (r *PostgresPeriodRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close releases the connection pool.
func (r *PostgresPeriodRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the fiscal_periods table if it does not exist.
func (r *PostgresPeriodRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create fiscal_periods table: %w", err)
	}
	return nil
}

// SaveCalendar
//
// Upserts a calendar inside a single transaction. Existing rows for the same
// (year, month) are overwritten and their update audit fields set; rows that
// are new get the creation audit fields. Every period is validated first and
// must close in year.
//
// Example:
//
//	periods, _ := domain.GenerateFinancialCalendar(2026)
//	err := repo.SaveCalendar(ctx, 2026, periods, audit.SystemUser)
func (r *PostgresPeriodRepository) SaveCalendar(ctx context.Context, year int, periods []domain.FiscalPeriod, user string) error {
	if len(periods) == 0 {
		return nil
	}

	for _, p := range periods {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("period %d-%02d validation failed: %w", year, p.Month, err)
		}
		if p.EndDate.Year() != year {
			return fmt.Errorf("period %s closes in %d, not %d", p.Month, p.EndDate.Year(), year)
		}
	}

	info := audit.NewAuditInfo(user)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fiscal_periods (
			year, month, label, start_date, end_date, quarter,
			audit_created_by, audit_created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (year, month) DO UPDATE SET
			label            = EXCLUDED.label,
			start_date       = EXCLUDED.start_date,
			end_date         = EXCLUDED.end_date,
			quarter          = EXCLUDED.quarter,
			audit_updated_by = EXCLUDED.audit_created_by,
			audit_updated_at = EXCLUDED.audit_created_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range periods {
		_, err := stmt.ExecContext(ctx,
			year,
			int(p.Month),
			p.Label,
			p.StartDate.Format(domain.DateLayout),
			p.EndDate.Format(domain.DateLayout),
			p.Quarter,
			info.CreatedBy,
			info.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert period %d-%02d: %w", year, p.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByYear retrieves the calendar of a single year.
func (r *PostgresPeriodRepository) FindByYear(ctx context.Context, year int) ([]domain.FiscalPeriod, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, label, start_date, end_date, quarter
		FROM fiscal_periods
		WHERE year = $1
		ORDER BY month`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.FiscalPeriod
	for rows.Next() {
		var (
			p          domain.FiscalPeriod
			month      int
			start, end time.Time
		)
		if err := rows.Scan(&month, &p.Label, &start, &end, &p.Quarter); err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		p.Month = time.Month(month)
		p.StartDate = asDate(start)
		p.EndDate = asDate(end)
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fiscal periods: %w", err)
	}

	if len(periods) == 0 {
		return nil, ErrCalendarNotFound
	}
	if len(periods) != 12 {
		return nil, fmt.Errorf("calendar %d is incomplete: %d of 12 periods stored", year, len(periods))
	}
	return periods, nil
}

// asDate drops the driver's zone and clock, keeping the calendar date.
func asDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
