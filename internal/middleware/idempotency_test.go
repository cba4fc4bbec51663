package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/account_ledger/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *atomic.Int64) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	calls := new(atomic.Int64)
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/accounts/:number/deposit", func(c *fiber.Ctx) error {
		n := calls.Add(1)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"call": n, "number": c.Params("number")})
	})
	app.Post("/accounts/:number/withdraw", func(c *fiber.Ctx) error {
		calls.Add(1)
		return fiber.NewError(fiber.StatusBadRequest, "invalid amount")
	})
	return app, calls
}

func post(t *testing.T, app *fiber.App, path, key string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(`{"amount":"1"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body), resp.Header.Get(replayedHeader)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, calls := setupTestApp(t)

	post(t, app, "/accounts/A100/deposit", "")
	post(t, app, "/accounts/A100/deposit", "")
	if calls.Load() != 2 {
		t.Fatalf("expected handler to run twice, ran %d", calls.Load())
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, calls := setupTestApp(t)

	status, first, replayed := post(t, app, "/accounts/A100/deposit", "abc123")
	if status != fiber.StatusOK || replayed != "" {
		t.Fatalf("unexpected first response %d replayed=%q", status, replayed)
	}

	status, second, replayed := post(t, app, "/accounts/A100/deposit", "abc123")
	if status != fiber.StatusOK || replayed != "true" {
		t.Fatalf("unexpected replay %d replayed=%q", status, replayed)
	}
	if first != second {
		t.Fatalf("expected cached payload %s got %s", first, second)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected handler to run once, ran %d", calls.Load())
	}
}

func TestIdempotencyKeyIsScopedToRoute(t *testing.T) {
	app, calls := setupTestApp(t)

	post(t, app, "/accounts/A100/deposit", "same")
	_, body, replayed := post(t, app, "/accounts/B200/deposit", "same")
	if replayed != "" || !strings.Contains(body, "B200") {
		t.Fatalf("expected a fresh response for another account, got %s", body)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected handler to run twice, ran %d", calls.Load())
	}
}

func TestIdempotencyDoesNotStoreErrors(t *testing.T) {
	app, calls := setupTestApp(t)

	for i := 0; i < 2; i++ {
		if status, _, _ := post(t, app, "/accounts/A100/withdraw", "retry-me"); status != fiber.StatusBadRequest {
			t.Fatalf("expected 400 got %d", status)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected failed requests to be retried, ran %d", calls.Load())
	}
}
