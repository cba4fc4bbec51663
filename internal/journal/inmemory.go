package journal

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type inMemoryJournal struct {
	mu        sync.RWMutex
	last      int64
	byCode    map[string]Entry
	sequences map[int64]struct{}
	byAccount map[string][]string
}

// NewInMemory creates a concurrency-safe in-memory journal for tests and
// development.
func NewInMemory() Journal {
	return &inMemoryJournal{
		byCode:    make(map[string]Entry),
		sequences: make(map[int64]struct{}),
		byAccount: make(map[string][]string),
	}
}

func (j *inMemoryJournal) Append(_ context.Context, entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, exists := j.byCode[entry.Code]; exists {
		return ErrDuplicateEntry
	}
	if _, exists := j.sequences[entry.SequenceID]; exists {
		return ErrDuplicateEntry
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	j.byCode[entry.Code] = entry
	j.sequences[entry.SequenceID] = struct{}{}
	if entry.SequenceID > j.last {
		j.last = entry.SequenceID
	}
	j.byAccount[entry.AccountNumber] = append(j.byAccount[entry.AccountNumber], entry.Code)
	return nil
}

func (j *inMemoryJournal) ByAccount(_ context.Context, accountNumber string) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	codes := j.byAccount[accountNumber]
	out := make([]Entry, 0, len(codes))
	for _, code := range codes {
		out = append(out, j.byCode[code])
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SequenceID < out[b].SequenceID })
	return out, nil
}

func (j *inMemoryJournal) ByCode(_ context.Context, code string) (Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	entry, ok := j.byCode[code]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (j *inMemoryJournal) LastSequenceID(_ context.Context) (int64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last, nil
}
