package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netflix-catalog-backend/internal/domains/title"
)

// scriptedQuerier feeds canned row results to QueryRow calls in order and
// records every statement it sees.
type scriptedQuerier struct {
	statements []string
	rowScans   []func(dest ...any) error
	execTag    pgconn.CommandTag
	execErr    error
}

type scriptedRow struct {
	scan func(dest ...any) error
}

func (r scriptedRow) Scan(dest ...any) error { return r.scan(dest...) }

func (q *scriptedQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.statements = append(q.statements, sql)
	return q.execTag, q.execErr
}

func (q *scriptedQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.statements = append(q.statements, sql)
	return nil, pgx.ErrNoRows
}

func (q *scriptedQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.statements = append(q.statements, sql)
	next := q.rowScans[0]
	q.rowScans = q.rowScans[1:]
	return scriptedRow{scan: next}
}

func noRow(...any) error { return pgx.ErrNoRows }

func lookupRow(id int64, name string) func(dest ...any) error {
	return func(dest ...any) error {
		now := time.Now()
		*dest[0].(*int64) = id
		*dest[1].(*string) = name
		*dest[2].(*time.Time) = now
		*dest[3].(*time.Time) = now
		return nil
	}
}

func TestResolveOrCreateLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("existing row wins without an insert", func(t *testing.T) {
		q := &scriptedQuerier{rowScans: []func(...any) error{lookupRow(7, "Movie")}}
		repo := &postgresRepository{db: q}

		lookup, err := repo.ResolveOrCreateLookup(ctx, title.KindTitleType, "Movie")
		require.NoError(t, err)
		assert.Equal(t, int64(7), lookup.ID)
		require.Len(t, q.statements, 1)
		assert.Contains(t, q.statements[0], "SELECT")
	})

	t.Run("miss inserts the row", func(t *testing.T) {
		q := &scriptedQuerier{rowScans: []func(...any) error{
			noRow,
			lookupRow(8, "Documentaries"),
		}}
		repo := &postgresRepository{db: q}

		lookup, err := repo.ResolveOrCreateLookup(ctx, title.KindCategory, "Documentaries")
		require.NoError(t, err)
		assert.Equal(t, int64(8), lookup.ID)

		require.Len(t, q.statements, 2)
		assert.Contains(t, q.statements[1], "INSERT INTO netflix_categories")
		// the insert must never raise a unique violation, which inside a
		// transaction would abort everything that follows
		assert.Contains(t, q.statements[1], "ON CONFLICT (name) DO NOTHING")
	})

	t.Run("lost race falls back to the winner's row", func(t *testing.T) {
		// select misses, the conflict-free insert returns no row because
		// a concurrent writer got there first, the re-select sees the
		// committed winner
		q := &scriptedQuerier{rowScans: []func(...any) error{
			noRow,
			noRow,
			lookupRow(9, "Japan"),
		}}
		repo := &postgresRepository{db: q}

		lookup, err := repo.ResolveOrCreateLookup(ctx, title.KindCountry, "Japan")
		require.NoError(t, err)
		assert.Equal(t, int64(9), lookup.ID)
		assert.Equal(t, "Japan", lookup.Name)
		require.Len(t, q.statements, 3)
		assert.Contains(t, q.statements[2], "SELECT")
	})

	t.Run("unknown kind", func(t *testing.T) {
		repo := &postgresRepository{db: &scriptedQuerier{}}
		_, err := repo.ResolveOrCreateLookup(ctx, title.LookupKind("bogus"), "x")
		assert.Error(t, err)
	})
}

func TestEnsureAssociation(t *testing.T) {
	ctx := context.Background()

	t.Run("existing link is a no-op", func(t *testing.T) {
		q := &scriptedQuerier{rowScans: []func(...any) error{
			func(dest ...any) error {
				*dest[0].(*int64) = 1
				return nil
			},
		}}
		repo := &postgresRepository{db: q}

		require.NoError(t, repo.EnsureAssociation(ctx, title.AssocDirector, 1, 7))
		assert.Len(t, q.statements, 1)
	})

	t.Run("missing link inserts conflict-free", func(t *testing.T) {
		q := &scriptedQuerier{
			rowScans: []func(...any) error{noRow},
			execTag:  pgconn.NewCommandTag("INSERT 0 1"),
		}
		repo := &postgresRepository{db: q}

		require.NoError(t, repo.EnsureAssociation(ctx, title.AssocCountry, 1, 9))
		require.Len(t, q.statements, 2)
		assert.Contains(t, q.statements[1], "INSERT INTO netflix_title_country_junction")
		assert.Contains(t, q.statements[1], "ON CONFLICT DO NOTHING")
	})

	t.Run("concurrent duplicate inserts zero rows and succeeds", func(t *testing.T) {
		q := &scriptedQuerier{
			rowScans: []func(...any) error{noRow},
			execTag:  pgconn.NewCommandTag("INSERT 0 0"),
		}
		repo := &postgresRepository{db: q}

		require.NoError(t, repo.EnsureAssociation(ctx, title.AssocCast, 1, 7))
	})
}

func TestTitleCacheEntryRoundTrip(t *testing.T) {
	original := &title.Title{
		ID:          1,
		ShowID:      "s1",
		Title:       "Dark",
		TitleTypeID: 10,
		RatingID:    20,
		TitleType:   "TV Show",
		Rating:      "TV-MA",
		ReleaseYear: 2017,
	}

	// the cache stores JSON, which drops the fields Title keeps out of
	// its public form; the entry must bring them back intact
	data, err := json.Marshal(newTitleCacheEntry(original))
	require.NoError(t, err)

	var entry titleCacheEntry
	require.NoError(t, json.Unmarshal(data, &entry))

	restored := entry.restore()
	assert.Equal(t, original, restored)
	assert.Equal(t, int64(10), restored.TitleTypeID)
	assert.Equal(t, int64(20), restored.RatingID)
}
