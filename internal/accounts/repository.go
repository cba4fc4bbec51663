package accounts

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/congo-pay/account_ledger/internal/bank"
)

var (
	// ErrAccountNotFound is returned for unknown account numbers.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when opening an account number twice.
	ErrAccountExists = errors.New("account exists")
)

// Repository keeps live accounts and serializes access to each of them.
type Repository interface {
	Create(ctx context.Context, account *bank.Account) error
	// With runs fn while holding the account's lock.
	With(ctx context.Context, number string, fn func(*bank.Account) error) error
	Numbers(ctx context.Context) ([]string, error)
}

type slot struct {
	mu      sync.Mutex
	account *bank.Account
}

type memoryRepository struct {
	mu    sync.RWMutex
	slots map[string]*slot
}

// NewMemoryRepository constructs a process-local repository. Accounts live for
// the lifetime of the process.
func NewMemoryRepository() Repository {
	return &memoryRepository{slots: make(map[string]*slot)}
}

func (r *memoryRepository) Create(_ context.Context, account *bank.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.slots[account.Number()]; exists {
		return ErrAccountExists
	}
	r.slots[account.Number()] = &slot{account: account}
	return nil
}

func (r *memoryRepository) With(ctx context.Context, number string, fn func(*bank.Account) error) error {
	r.mu.RLock()
	s, ok := r.slots[number]
	r.mu.RUnlock()
	if !ok {
		return ErrAccountNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.account)
}

func (r *memoryRepository) Numbers(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.slots))
	for n := range r.slots {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}
