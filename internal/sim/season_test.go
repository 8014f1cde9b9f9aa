package sim

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
)

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		endsAt time.Time
		want   int
	}{
		{name: "36 hours ceils to 2", endsAt: now.Add(36 * time.Hour), want: 2},
		{name: "exactly one day", endsAt: now.Add(24 * time.Hour), want: 1},
		{name: "one minute left", endsAt: now.Add(time.Minute), want: 1},
		{name: "already ended", endsAt: now.Add(-time.Hour), want: 0},
		{name: "ends right now", endsAt: now, want: 0},
	}
	for _, tc := range tests {
		season := Season{EndsAt: tc.endsAt}
		if got := season.DaysRemaining(now); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{
			in:   time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC), // a Wednesday
			want: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),  // preceding Monday
		},
		{
			in:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), // Monday midnight
			want: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			in:   time.Date(2026, 9, 6, 23, 59, 0, 0, time.UTC), // Sunday night
			want: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range tests {
		if got := weekStart(tc.in); !got.Equal(tc.want) {
			t.Fatalf("weekStart(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEnsureSeasonAdoptsConcurrentBootstrap(t *testing.T) {
	svc, mock := newMockService(t)

	started := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ends := started.AddDate(0, 0, 90)

	// Two fresh replicas race the first bootstrap: we see no active season,
	// insert, and lose to the single-active unique index. The loser adopts
	// the winner's season instead of failing.
	mock.ExpectQuery(`FROM seasons`).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO seasons`).
		WithArgs("Season 1", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_seasons_single_active"})
	mock.ExpectQuery(`FROM seasons`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "started_at", "ends_at", "is_active", "meta_modules"}).
			AddRow(int64(7), "Season 1", started, ends, true, []byte(`[]`)))

	season, err := svc.EnsureSeason(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if season.ID != 7 || !season.IsActive {
		t.Fatalf("expected adopted season, got %+v", season)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
