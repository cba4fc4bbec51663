package sequence

import (
	"context"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCounterStartsAtSeedAndIncreases(t *testing.T) {
	c := NewCounter(DefaultSeed)
	ctx := context.Background()

	prev := int64(-1)
	for i := 0; i < 50; i++ {
		id, err := c.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if i == 0 && id != DefaultSeed {
			t.Fatalf("expected first id %d, got %d", DefaultSeed, id)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than %d", id, prev)
		}
		prev = id
	}
	if c.Last() != prev {
		t.Fatalf("expected last %d, got %d", prev, c.Last())
	}
}

func TestCounterConcurrentCallersNeverShareIDs(t *testing.T) {
	c := NewCounter(DefaultSeed)
	ctx := context.Background()

	const workers = 16
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			prev := int64(-1)
			for i := 0; i < perWorker; i++ {
				id, _ := c.Next(ctx)
				if id <= prev {
					t.Errorf("ids went backwards for one caller: %d after %d", id, prev)
				}
				prev = id
				local = append(local, id)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if _, dup := seen[id]; dup {
					t.Errorf("duplicate id %d", id)
				}
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d ids, got %d", workers*perWorker, len(seen))
	}
	if c.Last() != DefaultSeed+workers*perWorker-1 {
		t.Fatalf("unexpected last id %d", c.Last())
	}
}

func TestRedisSource(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	src, err := NewRedisSource(ctx, client, "", DefaultSeed)
	if err != nil {
		t.Fatalf("new redis source: %v", err)
	}

	first, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if first != DefaultSeed {
		t.Fatalf("expected first id %d, got %d", DefaultSeed, first)
	}

	// A second process sharing the key must continue the sequence, not restart it.
	other, err := NewRedisSource(ctx, client, DefaultRedisKey, DefaultSeed)
	if err != nil {
		t.Fatalf("second source: %v", err)
	}
	second, err := other.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if second != first+1 {
		t.Fatalf("expected %d, got %d", first+1, second)
	}
}

func TestRedisSourceFailsWhenUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	src, err := NewRedisSource(ctx, client, "seq:test", 1)
	if err != nil {
		t.Fatalf("new redis source: %v", err)
	}
	mr.Close()

	if _, err := src.Next(ctx); err == nil {
		t.Fatal("expected error once redis is gone")
	}
}

func TestNewRedisSourceRequiresClient(t *testing.T) {
	if _, err := NewRedisSource(context.Background(), nil, "", 1); err == nil {
		t.Fatal("expected error for nil client")
	}
}
