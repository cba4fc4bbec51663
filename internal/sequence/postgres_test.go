package sequence

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Set LEDGER_TEST_DATABASE_URL to run against a disposable database.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("LEDGER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("LEDGER_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("ping postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresSourceStartsAtSeed(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	name := fmt.Sprintf("confirmation_seq_test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		db.Exec(context.Background(), "DROP SEQUENCE IF EXISTS "+pgx.Identifier{name}.Sanitize())
	})

	src, err := NewPostgresSource(ctx, db, name, 700)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	prev := int64(0)
	for i := 0; i < 5; i++ {
		id, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if i == 0 && id != 700 {
			t.Fatalf("expected first id 700, got %d", id)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than %d", id, prev)
		}
		prev = id
	}

	// An existing sequence keeps its position.
	again, err := NewPostgresSource(ctx, db, name, 700)
	if err != nil {
		t.Fatalf("reopen source: %v", err)
	}
	if id, _ := again.Next(ctx); id != prev+1 {
		t.Fatalf("expected %d after reopen, got %d", prev+1, id)
	}
}

func TestPostgresSourceRejectsBadNames(t *testing.T) {
	if _, err := NewPostgresSource(context.Background(), nil, "x", 1); err == nil {
		t.Fatalf("expected error without pool")
	}
	db := testPool(t)
	if _, err := NewPostgresSource(context.Background(), db, "bad-name; drop", 1); err == nil {
		t.Fatalf("expected error for invalid name")
	}
}
