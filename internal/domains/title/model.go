package title

import "time"

// Lookup is a row in one of the deduplicated reference tables (names,
// countries, categories, title types, ratings). Each kind is keyed by a
// unique name; rows are created lazily on first reference and never deleted.
type Lookup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LookupKind selects which reference table a lookup lives in.
type LookupKind string

const (
	KindName      LookupKind = "name" // people; aliases are out of scope, hence names not persons
	KindCountry   LookupKind = "country"
	KindCategory  LookupKind = "category"
	KindTitleType LookupKind = "title_type"
	KindRating    LookupKind = "rating"
)

// AssocKind identifies one of the four junction tables linking a title to
// lookup rows. Director and cast are independent roles over the same names
// table.
type AssocKind string

const (
	AssocDirector AssocKind = "director"
	AssocCast     AssocKind = "cast"
	AssocCountry  AssocKind = "country"
	AssocCategory AssocKind = "category"
)

// AllAssocKinds in the order write paths process them.
var AllAssocKinds = []AssocKind{AssocDirector, AssocCast, AssocCountry, AssocCategory}

// LookupKind returns the reference table an association kind points at.
func (k AssocKind) LookupKind() LookupKind {
	switch k {
	case AssocDirector, AssocCast:
		return KindName
	case AssocCountry:
		return KindCountry
	default:
		return KindCategory
	}
}

// Title is a catalog entry. TitleType and Rating are display names
// denormalized from the referenced lookup rows at read time; only the ids
// are stored on the row itself.
type Title struct {
	ID          int64      `json:"id"`
	ShowID      string     `json:"show_id"`
	Title       string     `json:"title"`
	TitleTypeID int64      `json:"-"`
	RatingID    int64      `json:"-"`
	TitleType   string     `json:"title_type"`
	Rating      string     `json:"rating"`
	DateAdded   *time.Time `json:"date_added"`
	ReleaseYear int        `json:"release_year"`
	Duration    *int       `json:"duration"`
	Seasons     *int       `json:"seasons"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Directors  []Lookup `json:"directors"`
	Cast       []Lookup `json:"cast"`
	Countries  []Lookup `json:"countries"`
	Categories []Lookup `json:"categories"`
}

// DateAddedLayout matches the dataset's human-readable form, e.g.
// "March 15, 2017".
const DateAddedLayout = "January 2, 2006"

// ParseDateAdded parses the textual date_added field.
func ParseDateAdded(s string) (time.Time, error) {
	return time.Parse(DateAddedLayout, s)
}

// DiffAssociations computes the changes needed to make the current
// association set match desired: additions are desired names with no current
// row, removals are current rows whose name is no longer desired. Names
// already associated appear in neither list, which is what makes reconcile
// idempotent. Duplicate desired names collapse to one addition.
func DiffAssociations(desired []string, current []Lookup) (toAdd []string, toRemove []Lookup) {
	want := make(map[string]bool, len(desired))
	for _, name := range desired {
		want[name] = true
	}

	have := make(map[string]bool, len(current))
	for _, l := range current {
		have[l.Name] = true
		if !want[l.Name] {
			toRemove = append(toRemove, l)
		}
	}

	seen := make(map[string]bool, len(desired))
	for _, name := range desired {
		if !have[name] && !seen[name] {
			toAdd = append(toAdd, name)
			seen[name] = true
		}
	}

	return toAdd, toRemove
}

// List pagination bounds. MaxListLimit caps a single page so a client
// cannot request an unbounded result set.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Filter is the fixed, enumerated set of list predicates. Every field is
// independently optional; active predicates combine with AND. Search matches
// title OR description case-insensitively as a substring.
type Filter struct {
	TitleType   *string
	TitleTypeIn []string
	Rating      *string
	RatingIn    []string
	ReleaseYear *int
	Duration    *int
	Seasons     *int

	Search string

	// OrderBy holds column names, each optionally prefixed with "-" for
	// descending. Empty means primary key ascending.
	OrderBy []string

	Skip  int
	Limit int
}
