package repository

import (
	"fmt"
	"strings"

	"netflix-catalog-backend/internal/domains/title"
	"netflix-catalog-backend/internal/shared/utils"
)

const listSelect = `
	SELECT
		t.id, t.show_id, t.title, t.title_type_id, t.rating_id,
		tt.name AS title_type, r.name AS rating,
		t.date_added, t.release_year, t.duration, t.seasons, t.description,
		t.created_at, t.updated_at
	FROM netflix_titles t
	JOIN netflix_title_types tt ON tt.id = t.title_type_id
	JOIN netflix_ratings r ON r.id = t.rating_id`

// sortColumns whitelists order_by inputs against real columns. Anything not
// listed is rejected before it reaches SQL.
var sortColumns = map[string]string{
	"id":           "t.id",
	"show_id":      "t.show_id",
	"title":        "t.title",
	"release_year": "t.release_year",
	"duration":     "t.duration",
	"seasons":      "t.seasons",
	"date_added":   "t.date_added",
	"created_at":   "t.created_at",
	"updated_at":   "t.updated_at",
}

// BuildListQuery composes the catalog list query from the filter's active
// predicates (AND), the substring search (OR across title and description),
// the whitelisted sort order, and offset/limit pagination.
func BuildListQuery(f title.Filter) (string, []any, error) {
	var (
		where    []string
		args     []any
		argIndex = 1
	)

	addArg := func(clauseFormat string, value any) {
		where = append(where, fmt.Sprintf(clauseFormat, argIndex))
		args = append(args, value)
		argIndex++
	}

	if f.TitleType != nil {
		addArg("tt.name = $%d", *f.TitleType)
	}
	if len(f.TitleTypeIn) > 0 {
		addArg("tt.name = ANY($%d)", f.TitleTypeIn)
	}
	if f.Rating != nil {
		addArg("r.name = $%d", *f.Rating)
	}
	if len(f.RatingIn) > 0 {
		addArg("r.name = ANY($%d)", f.RatingIn)
	}
	if f.ReleaseYear != nil {
		addArg("t.release_year = $%d", *f.ReleaseYear)
	}
	if f.Duration != nil {
		addArg("t.duration = $%d", *f.Duration)
	}
	if f.Seasons != nil {
		addArg("t.seasons = $%d", *f.Seasons)
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		clause := utils.JoinWithOr([]string{
			fmt.Sprintf("t.title ILIKE $%d", argIndex),
			fmt.Sprintf("t.description ILIKE $%d", argIndex),
		})
		where = append(where, "("+clause+")")
		args = append(args, pattern)
		argIndex++
	}

	orderBy, err := buildOrderBy(f.OrderBy)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString(listSelect)
	if len(where) > 0 {
		sb.WriteString("\n\tWHERE ")
		sb.WriteString(utils.JoinWithAnd(where))
	}
	sb.WriteString("\n\tORDER BY ")
	sb.WriteString(orderBy)

	skip, limit := clampPagination(f.Skip, f.Limit)
	sb.WriteString(fmt.Sprintf("\n\tOFFSET $%d LIMIT $%d", argIndex, argIndex+1))
	args = append(args, skip, limit)

	return sb.String(), args, nil
}

// buildOrderBy turns order_by terms ("title", "-release_year") into an ORDER
// BY clause, appending the primary key as tiebreaker so pagination stays
// stable across pages.
func buildOrderBy(terms []string) (string, error) {
	var clauses []string
	sawID := false

	for _, term := range terms {
		direction := "ASC"
		name := term
		if rest, ok := strings.CutPrefix(term, "-"); ok {
			direction = "DESC"
			name = rest
		}

		column, ok := sortColumns[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", title.ErrInvalidOrderBy, term)
		}
		if name == "id" {
			sawID = true
		}

		clauses = append(clauses, column+" "+direction)
	}

	if !sawID {
		clauses = append(clauses, "t.id ASC")
	}

	return strings.Join(clauses, ", "), nil
}

func clampPagination(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = title.DefaultListLimit
	}
	if limit > title.MaxListLimit {
		limit = title.MaxListLimit
	}
	return skip, limit
}
