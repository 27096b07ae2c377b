package title

import "context"

// Repository is the persistence contract for the catalog: the lookup store,
// the association manager, and the composed list query.
type Repository interface {
	// WithTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Repository) error) error

	GetByShowID(ctx context.Context, showID string) (*Title, error)
	List(ctx context.Context, filter Filter) ([]Title, error)
	Insert(ctx context.Context, t *Title) error
	Update(ctx context.Context, t *Title) error

	// ResolveOrCreateLookup finds a lookup row by exact name, creating it
	// on a miss. A concurrent duplicate insert is absorbed by re-reading
	// the row the other writer created.
	ResolveOrCreateLookup(ctx context.Context, kind LookupKind, name string) (*Lookup, error)

	// EnsureAssociation idempotently links a title to a lookup row.
	EnsureAssociation(ctx context.Context, kind AssocKind, titleID, lookupID int64) error

	// DeleteAssociation removes the link if present and reports how many
	// rows went away. A missing link is not an error.
	DeleteAssociation(ctx context.Context, kind AssocKind, titleID, lookupID int64) (int64, error)

	ListAssociations(ctx context.Context, kind AssocKind, titleID int64) ([]Lookup, error)

	// ReconcileAssociations makes the stored association set of one kind
	// match desired exactly: additions first, then removals.
	ReconcileAssociations(ctx context.Context, kind AssocKind, titleID int64, desired []string) error

	// InvalidateTitleCache drops cached title reads after a write commits.
	InvalidateTitleCache(ctx context.Context)
}
