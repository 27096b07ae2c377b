package title

import "errors"

// Sentinel errors for the title domain, checked with errors.Is in handlers
// and mapped to HTTP statuses there.
var (
	// ErrTitleNotFound - no catalog entry with the requested show_id.
	// 404 on GET, 400 on PUT/PATCH; updates never create.
	ErrTitleNotFound = errors.New("netflix title not found")

	// ErrShowIDInUse - create with an already-registered show_id. show_id
	// is unique and immutable. 400.
	ErrShowIDInUse = errors.New("show id already in use")

	// ErrInvalidDateAdded - date_added missing where required or not in
	// "Month Day, Year" form. Surfaced as a client error, never a fault.
	ErrInvalidDateAdded = errors.New("date_added must be in \"January 2, 2006\" format")

	// ErrInvalidOrderBy - order_by referenced a column outside the sort
	// whitelist.
	ErrInvalidOrderBy = errors.New("invalid order_by column")

	// ErrFieldNotNullable - PATCH supplied an explicit null for a field
	// that cannot be cleared.
	ErrFieldNotNullable = errors.New("field cannot be null")
)
