package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nholding/clearvue/internal/audit"
	"github.com/nholding/clearvue/internal/period/domain"
)

func newMockRepo(t *testing.T) (*PostgresPeriodRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresPeriodRepository(db), mock
}

func calendar(t *testing.T, year int) []domain.FiscalPeriod {
	t.Helper()
	periods, err := domain.GenerateFinancialCalendar(year)
	require.NoError(t, err)
	return periods
}

func TestSaveCalendar_UpsertsInTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	periods := calendar(t, 2024)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO fiscal_periods")
	for _, p := range periods {
		prep.ExpectExec().
			WithArgs(2024, int(p.Month), p.Label,
				p.StartDate.Format(domain.DateLayout), p.EndDate.Format(domain.DateLayout),
				p.Quarter, audit.SystemUser, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.SaveCalendar(context.Background(), 2024, periods, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCalendar_RollsBackOnExecError(t *testing.T) {
	repo, mock := newMockRepo(t)
	periods := calendar(t, 2024)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO fiscal_periods")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.SaveCalendar(context.Background(), 2024, periods, "analyst@clearvue.local")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-02")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCalendar_RejectsForeignYear(t *testing.T) {
	repo, mock := newMockRepo(t)

	err := repo.SaveCalendar(context.Background(), 2025, calendar(t, 2024), "")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL may run for invalid input")
}

func TestSaveCalendar_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)
	require.NoError(t, repo.SaveCalendar(context.Background(), 2024, nil, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByYear(t *testing.T) {
	repo, mock := newMockRepo(t)
	want := calendar(t, 2024)

	rows := sqlmock.NewRows([]string{"month", "label", "start_date", "end_date", "quarter"})
	for _, p := range want {
		// Drivers hand back dates in the session zone.
		loc := time.FixedZone("CET", 3600)
		rows.AddRow(int(p.Month), p.Label, p.StartDate.In(loc), p.EndDate.In(loc), p.Quarter)
	}
	mock.ExpectQuery("SELECT month, label, start_date, end_date, quarter").
		WithArgs(2024).
		WillReturnRows(rows)

	got, err := repo.FindByYear(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, got, 12)
	for i := range want {
		assert.Equal(t, want[i].Month, got[i].Month)
		assert.True(t, want[i].StartDate.Equal(got[i].StartDate))
		assert.True(t, want[i].EndDate.Equal(got[i].EndDate))
		assert.Equal(t, time.UTC, got[i].StartDate.Location())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByYear_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT month").
		WithArgs(1999).
		WillReturnRows(sqlmock.NewRows([]string{"month", "label", "start_date", "end_date", "quarter"}))

	_, err := repo.FindByYear(context.Background(), 1999)
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestFindByYear_Incomplete(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := calendar(t, 2024)[0]
	mock.ExpectQuery("SELECT month").
		WithArgs(2024).
		WillReturnRows(sqlmock.NewRows([]string{"month", "label", "start_date", "end_date", "quarter"}).
			AddRow(1, p.Label, p.StartDate, p.EndDate, 1))

	_, err := repo.FindByYear(context.Background(), 2024)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCalendarNotFound)
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, NewPostgresPeriodRepository(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS fiscal_periods").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
