package account

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the default in-memory credential store. Reads take a shared
// lock so concurrent lookups never block each other; the insert-if-absent
// check runs under the write lock to preserve email uniqueness.
type MemoryRepo struct {
	mu      sync.RWMutex
	byEmail map[string]*Account
	seq     int
}

// NewMemoryRepo creates an empty in-memory store.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byEmail: make(map[string]*Account)}
}

func (r *MemoryRepo) FindByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acct, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUnknownAccount
	}
	cp := *acct
	return &cp, nil
}

func (r *MemoryRepo) InsertIfAbsent(_ context.Context, acct *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[acct.Email]; exists {
		return ErrDuplicateEmail
	}

	r.seq++
	if acct.UserID == "" {
		acct.UserID = fmt.Sprintf("USR%03d", r.seq)
	}
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = time.Now().UTC()
	}

	cp := *acct
	r.byEmail[acct.Email] = &cp
	return nil
}

func (r *MemoryRepo) List(_ context.Context, limit, offset int) ([]*Account, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Account, 0, len(r.byEmail))
	for _, acct := range r.byEmail {
		cp := *acct
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *MemoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail), nil
}

// SetActive toggles the active flag for an account. Not exposed over HTTP;
// the login path checks the flag, so deactivation takes effect on the next
// request.
func (r *MemoryRepo) SetActive(_ context.Context, email string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.byEmail[email]
	if !ok {
		return ErrUnknownAccount
	}
	acct.IsActive = active
	return nil
}
