package account

import "context"

// Repository defines the persistence interface for the credential store.
// Lookups dominate and must not block each other; InsertIfAbsent is the one
// mutating operation and must be atomic with respect to the uniqueness check
// so that exactly one of N concurrent registrations of the same email wins.
type Repository interface {
	// FindByEmail returns the account for the given email, or
	// ErrUnknownAccount.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// InsertIfAbsent stores acct keyed by email, assigning UserID and
	// CreatedAt when unset. Returns ErrDuplicateEmail if the email is
	// already present; the store is unchanged in that case.
	InsertIfAbsent(ctx context.Context, acct *Account) error
	// List returns a page of accounts ordered by user_id, plus the total
	// count.
	List(ctx context.Context, limit, offset int) ([]*Account, int, error)
	// Count returns the number of stored accounts.
	Count(ctx context.Context) (int, error)
}
