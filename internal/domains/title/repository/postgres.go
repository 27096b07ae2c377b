package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"netflix-catalog-backend/internal/domains/title"
	"netflix-catalog-backend/pkg/cache"
	"netflix-catalog-backend/pkg/database"
	"netflix-catalog-backend/pkg/logger"
)

const (
	titleCacheKeyPrefix = "title:show:"
	titleCachePattern   = "title:*"
	titleCacheTTL       = 5 * time.Minute
)

// lookupTables maps a lookup kind to its reference table. Every table has
// the same shape: id, unique name, timestamps.
var lookupTables = map[title.LookupKind]string{
	title.KindName:      "netflix_names",
	title.KindCountry:   "netflix_countries",
	title.KindCategory:  "netflix_categories",
	title.KindTitleType: "netflix_title_types",
	title.KindRating:    "netflix_ratings",
}

// assocTables maps an association kind to its junction table and the column
// holding the lookup-row foreign key.
var assocTables = map[title.AssocKind]struct {
	table     string
	lookupCol string
}{
	title.AssocDirector: {"netflix_title_director_junction", "director_id"},
	title.AssocCast:     {"netflix_title_cast_junction", "cast_id"},
	title.AssocCountry:  {"netflix_title_country_junction", "country_id"},
	title.AssocCategory: {"netflix_title_category_junction", "category_id"},
}

// postgresRepository - raw SQL over pgxpool. A transaction-bound copy (pool
// nil, db = pgx.Tx) is handed to WithTx callbacks; the cache is only
// consulted outside transactions so in-flight writes always read their own
// uncommitted state.
type postgresRepository struct {
	pool  *pgxpool.Pool
	db    database.Querier
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) title.Repository {
	return &postgresRepository{
		pool:  pool,
		db:    pool,
		cache: c,
	}
}

func (r *postgresRepository) WithTx(ctx context.Context, fn func(title.Repository) error) error {
	if r.pool == nil {
		// Already transaction-bound; nested calls join the same tx.
		return fn(r)
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&postgresRepository{db: tx, cache: r.cache})
	})
}

// ========================= LOOKUP STORE =========================

func (r *postgresRepository) ResolveOrCreateLookup(ctx context.Context, kind title.LookupKind, name string) (*title.Lookup, error) {
	table, ok := lookupTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}

	lookup, err := r.selectLookup(ctx, table, name)
	if err == nil {
		return lookup, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("select %s %q: %w", table, name, err)
	}

	// ON CONFLICT DO NOTHING keeps a lost race from raising 23505, which
	// would abort the surrounding transaction and make any recovery
	// statement fail with 25P02. Losing the race yields no row; the
	// winner's committed row is then read back.
	insert := fmt.Sprintf(`
		INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at, updated_at
	`, table)

	created := &title.Lookup{}
	err = r.db.QueryRow(ctx, insert, name).Scan(
		&created.ID, &created.Name, &created.CreatedAt, &created.UpdatedAt,
	)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("insert %s %q: %w", table, name, err)
	}

	lookup, err = r.selectLookup(ctx, table, name)
	if err != nil {
		return nil, fmt.Errorf("re-select %s %q after conflict: %w", table, name, err)
	}
	return lookup, nil
}

func (r *postgresRepository) selectLookup(ctx context.Context, table, name string) (*title.Lookup, error) {
	query := fmt.Sprintf(`
		SELECT id, name, created_at, updated_at FROM %s WHERE name = $1
	`, table)

	lookup := &title.Lookup{}
	err := r.db.QueryRow(ctx, query, name).Scan(
		&lookup.ID, &lookup.Name, &lookup.CreatedAt, &lookup.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lookup, nil
}

// ========================= ASSOCIATION MANAGER =========================

func (r *postgresRepository) EnsureAssociation(ctx context.Context, kind title.AssocKind, titleID, lookupID int64) error {
	at, ok := assocTables[kind]
	if !ok {
		return fmt.Errorf("unknown association kind %q", kind)
	}

	var existingID int64
	query := fmt.Sprintf(`SELECT id FROM %s WHERE title_id = $1 AND %s = $2`, at.table, at.lookupCol)
	err := r.db.QueryRow(ctx, query, titleID, lookupID).Scan(&existingID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("select %s association: %w", kind, err)
	}

	// DO NOTHING absorbs a concurrent duplicate without the 23505 that
	// would abort the surrounding transaction. Zero rows inserted means
	// the link already exists, which is all ensure promises.
	insert := fmt.Sprintf(
		`INSERT INTO %s (title_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		at.table, at.lookupCol,
	)
	if _, err := r.db.Exec(ctx, insert, titleID, lookupID); err != nil {
		return fmt.Errorf("insert %s association: %w", kind, err)
	}

	return nil
}

func (r *postgresRepository) DeleteAssociation(ctx context.Context, kind title.AssocKind, titleID, lookupID int64) (int64, error) {
	at, ok := assocTables[kind]
	if !ok {
		return 0, fmt.Errorf("unknown association kind %q", kind)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE title_id = $1 AND %s = $2`, at.table, at.lookupCol)
	tag, err := r.db.Exec(ctx, query, titleID, lookupID)
	if err != nil {
		return 0, fmt.Errorf("delete %s association: %w", kind, err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresRepository) ListAssociations(ctx context.Context, kind title.AssocKind, titleID int64) ([]title.Lookup, error) {
	at, ok := assocTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown association kind %q", kind)
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.name, l.created_at, l.updated_at
		FROM %s j
		JOIN %s l ON l.id = j.%s
		WHERE j.title_id = $1
		ORDER BY l.id
	`, at.table, lookupTables[kind.LookupKind()], at.lookupCol)

	rows, err := r.db.Query(ctx, query, titleID)
	if err != nil {
		return nil, fmt.Errorf("list %s associations: %w", kind, err)
	}
	defer rows.Close()

	return scanLookups(rows)
}

func (r *postgresRepository) ReconcileAssociations(ctx context.Context, kind title.AssocKind, titleID int64, desired []string) error {
	current, err := r.ListAssociations(ctx, kind, titleID)
	if err != nil {
		return err
	}

	toAdd, toRemove := title.DiffAssociations(desired, current)

	// Additions before removals, so a kind that still has members never
	// passes through an empty state.
	for _, name := range toAdd {
		lookup, err := r.ResolveOrCreateLookup(ctx, kind.LookupKind(), name)
		if err != nil {
			return err
		}
		if err := r.EnsureAssociation(ctx, kind, titleID, lookup.ID); err != nil {
			return err
		}
	}

	for _, lookup := range toRemove {
		if _, err := r.DeleteAssociation(ctx, kind, titleID, lookup.ID); err != nil {
			return err
		}
	}

	return nil
}

// ========================= TITLES =========================

// titleCacheEntry carries the lookup foreign keys alongside the entry.
// Title hides them from its public JSON form, so caching the struct as-is
// would return them zeroed on a hit.
type titleCacheEntry struct {
	Title       title.Title `json:"title"`
	TitleTypeID int64       `json:"title_type_id"`
	RatingID    int64       `json:"rating_id"`
}

func newTitleCacheEntry(t *title.Title) titleCacheEntry {
	return titleCacheEntry{
		Title:       *t,
		TitleTypeID: t.TitleTypeID,
		RatingID:    t.RatingID,
	}
}

func (e titleCacheEntry) restore() *title.Title {
	t := e.Title
	t.TitleTypeID = e.TitleTypeID
	t.RatingID = e.RatingID
	return &t
}

func (r *postgresRepository) GetByShowID(ctx context.Context, showID string) (*title.Title, error) {
	cacheKey := titleCacheKeyPrefix + showID
	if r.pool != nil && r.cache != nil {
		var cached titleCacheEntry
		if found, err := r.cache.Get(ctx, cacheKey, &cached); err != nil {
			logger.Warn("title cache read failed", err)
		} else if found {
			return cached.restore(), nil
		}
	}

	query := listSelect + `
	WHERE t.show_id = $1`

	t := &title.Title{}
	err := r.db.QueryRow(ctx, query, showID).Scan(
		&t.ID, &t.ShowID, &t.Title, &t.TitleTypeID, &t.RatingID,
		&t.TitleType, &t.Rating,
		&t.DateAdded, &t.ReleaseYear, &t.Duration, &t.Seasons, &t.Description,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, title.ErrTitleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select title %q: %w", showID, err)
	}

	if err := r.loadAssociations(ctx, t); err != nil {
		return nil, err
	}

	if r.pool != nil && r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, newTitleCacheEntry(t), titleCacheTTL); err != nil {
			logger.Warn("title cache write failed", err)
		}
	}

	return t, nil
}

func (r *postgresRepository) List(ctx context.Context, filter title.Filter) ([]title.Title, error) {
	query, args, err := BuildListQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []title.Title
	for rows.Next() {
		var t title.Title
		err := rows.Scan(
			&t.ID, &t.ShowID, &t.Title, &t.TitleTypeID, &t.RatingID,
			&t.TitleType, &t.Rating,
			&t.DateAdded, &t.ReleaseYear, &t.Duration, &t.Seasons, &t.Description,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	if err := r.loadAssociationsBatch(ctx, titles); err != nil {
		return nil, err
	}

	return titles, nil
}

func (r *postgresRepository) Insert(ctx context.Context, t *title.Title) error {
	const query = `
		INSERT INTO netflix_titles (
			show_id, title, title_type_id, rating_id,
			date_added, release_year, duration, seasons, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		t.ShowID,
		t.Title,
		t.TitleTypeID,
		t.RatingID,
		t.DateAdded,
		t.ReleaseYear,
		t.Duration,
		t.Seasons,
		t.Description,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return title.ErrShowIDInUse
		}
		return fmt.Errorf("insert title %q: %w", t.ShowID, err)
	}

	return nil
}

func (r *postgresRepository) Update(ctx context.Context, t *title.Title) error {
	const query = `
		UPDATE netflix_titles SET
			title = $1,
			title_type_id = $2,
			rating_id = $3,
			date_added = $4,
			release_year = $5,
			duration = $6,
			seasons = $7,
			description = $8,
			updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.TitleTypeID,
		t.RatingID,
		t.DateAdded,
		t.ReleaseYear,
		t.Duration,
		t.Seasons,
		t.Description,
		t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return title.ErrTitleNotFound
	}
	if err != nil {
		return fmt.Errorf("update title %q: %w", t.ShowID, err)
	}

	return nil
}

func (r *postgresRepository) InvalidateTitleCache(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.DeletePattern(ctx, titleCachePattern); err != nil {
		logger.Warn("title cache invalidation failed", err)
	}
}

// ========================= HELPERS =========================

func (r *postgresRepository) loadAssociations(ctx context.Context, t *title.Title) error {
	for _, kind := range title.AllAssocKinds {
		lookups, err := r.ListAssociations(ctx, kind, t.ID)
		if err != nil {
			return err
		}
		attachAssociations(t, kind, lookups)
	}
	return nil
}

// loadAssociationsBatch fills the association sets of a whole result page
// with one query per kind instead of four per row.
func (r *postgresRepository) loadAssociationsBatch(ctx context.Context, titles []title.Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(titles))
	index := make(map[int64]*title.Title, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
		index[titles[i].ID] = &titles[i]
	}

	for _, kind := range title.AllAssocKinds {
		at := assocTables[kind]
		query := fmt.Sprintf(`
			SELECT j.title_id, l.id, l.name, l.created_at, l.updated_at
			FROM %s j
			JOIN %s l ON l.id = j.%s
			WHERE j.title_id = ANY($1)
			ORDER BY j.title_id, l.id
		`, at.table, lookupTables[kind.LookupKind()], at.lookupCol)

		rows, err := r.db.Query(ctx, query, ids)
		if err != nil {
			return fmt.Errorf("batch load %s associations: %w", kind, err)
		}

		for rows.Next() {
			var titleID int64
			var l title.Lookup
			if err := rows.Scan(&titleID, &l.ID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
				rows.Close()
				return fmt.Errorf("scan %s association row: %w", kind, err)
			}
			if t, ok := index[titleID]; ok {
				attachAssociations(t, kind, append(associationsOf(t, kind), l))
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("batch load %s associations: %w", kind, err)
		}
		rows.Close()
	}

	return nil
}

func attachAssociations(t *title.Title, kind title.AssocKind, lookups []title.Lookup) {
	switch kind {
	case title.AssocDirector:
		t.Directors = lookups
	case title.AssocCast:
		t.Cast = lookups
	case title.AssocCountry:
		t.Countries = lookups
	case title.AssocCategory:
		t.Categories = lookups
	}
}

func associationsOf(t *title.Title, kind title.AssocKind) []title.Lookup {
	switch kind {
	case title.AssocDirector:
		return t.Directors
	case title.AssocCast:
		return t.Cast
	case title.AssocCountry:
		return t.Countries
	default:
		return t.Categories
	}
}

func scanLookups(rows pgx.Rows) ([]title.Lookup, error) {
	var lookups []title.Lookup
	for rows.Next() {
		var l title.Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lookup row: %w", err)
		}
		lookups = append(lookups, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lookups, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
