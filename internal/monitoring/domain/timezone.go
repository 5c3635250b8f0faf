package monitoring

import "context"

// DefaultTimezone is used for stores with no timezone mapping.
const DefaultTimezone = "America/Chicago"

// StoreTimezone maps a store to its IANA timezone identifier.
type StoreTimezone struct {
	StoreID  string
	Timezone string
}

// StoreTimezoneLister enumerates the store population with timezones.
type StoreTimezoneLister interface {
	// List returns up to limit store/timezone records in stable order;
	// limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]StoreTimezone, error)
}
