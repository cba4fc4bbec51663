package confirmation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/congo-pay/account_ledger/internal/tz"
)

func TestEncodeFormat(t *testing.T) {
	at := time.Date(2024, 10, 18, 23, 55, 12, 999, time.UTC)
	code, err := Encode(KindDeposit, "A100", at, 100)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if code != "D-A100-20241018235512-100" {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestEncodeConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("X", -7*3600)
	at := time.Date(2024, 10, 18, 20, 0, 0, 0, loc)
	code, err := Encode(KindWithdraw, "A100", at, 7)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if code != "W-A100-20241019030000-7" {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestEncodeRejectsAmbiguousFields(t *testing.T) {
	at := time.Now()
	cases := []struct{ kind, account string }{
		{"", "A100"},
		{"D", ""},
		{"D-X", "A100"},
		{"D", "A-100"},
	}
	for _, tc := range cases {
		if _, err := Encode(tc.kind, tc.account, at, 1); !errors.Is(err, ErrMalformedCode) {
			t.Fatalf("Encode(%q, %q): expected ErrMalformedCode, got %v", tc.kind, tc.account, err)
		}
	}
	if _, err := Encode("D", "A100", at, -1); !errors.Is(err, ErrMalformedCode) {
		t.Fatalf("expected ErrMalformedCode for negative id, got %v", err)
	}
	if _, err := Encode("D", "A100", time.Date(12000, 1, 1, 0, 0, 0, 0, time.UTC), 1); !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp for 5-digit year, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		kind    string
		account string
		at      time.Time
		seq     int64
	}{
		{KindDeposit, "A100", time.Date(2024, 10, 18, 23, 55, 12, 0, time.UTC), 100},
		{KindRejected, "140568", time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC), 101},
		{"dummy", "acct_9", time.Date(1999, 12, 31, 23, 59, 59, 500_000_000, time.UTC), 1 << 62},
		{KindInterest, "Z", time.Date(2030, 1, 1, 12, 0, 0, 0, time.FixedZone("E", 3600)), 0},
	}
	for _, tc := range cases {
		code, err := Encode(tc.kind, tc.account, tc.at, tc.seq)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		rec, err := Decode(code)
		if err != nil {
			t.Fatalf("decode %q: %v", code, err)
		}
		if rec.Kind != tc.kind || rec.AccountNumber != tc.account || rec.SequenceID != tc.seq {
			t.Fatalf("round trip mismatch for %q: %+v", code, rec)
		}
		if !rec.TimeUTC.Equal(tc.at.Truncate(time.Second)) {
			t.Fatalf("time mismatch: got %v want %v", rec.TimeUTC, tc.at.Truncate(time.Second))
		}
		if rec.TimeUTC.Location() != time.UTC {
			t.Fatalf("expected UTC location, got %v", rec.TimeUTC.Location())
		}
		if rec.TimeZone != "UTC" || !rec.TimeLocal.Equal(rec.TimeUTC) {
			t.Fatalf("default decode should be UTC, got %+v", rec)
		}
	}
}

func TestDecodeInShiftsLocalTime(t *testing.T) {
	mst, err := tz.New("MST", -7, 0)
	if err != nil {
		t.Fatalf("tz: %v", err)
	}
	rec, err := DecodeIn("D-A100-20241018235512-100", mst)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := time.Date(2024, 10, 18, 16, 55, 12, 0, time.UTC)
	local := rec.TimeLocal
	if local.Year() != want.Year() || local.Month() != want.Month() || local.Day() != want.Day() ||
		local.Hour() != want.Hour() || local.Minute() != want.Minute() || local.Second() != want.Second() {
		t.Fatalf("unexpected local wall time %v", local)
	}
	if rec.TimeZone != "MST" {
		t.Fatalf("unexpected zone name %q", rec.TimeZone)
	}
	if name, _ := local.Zone(); name != "MST" {
		t.Fatalf("unexpected location name %q", name)
	}

	ist, _ := tz.New("IST", 5, 30)
	rec, err = DecodeIn("D-A100-20241018235512-100", ist)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.TimeLocal.Day() != 19 || rec.TimeLocal.Hour() != 5 || rec.TimeLocal.Minute() != 25 {
		t.Fatalf("unexpected IST wall time %v", rec.TimeLocal)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []string{
		"",
		"D-A100-20241018235512",
		"dummy-A100-20241018235512-100-extra",
		"D--20241018235512-100",
		"-A100-20241018235512-100",
		"D-A100-20241018235512-",
		"D-A100-20241018235512-abc",
	}
	for _, code := range cases {
		if _, err := Decode(code); !errors.Is(err, ErrMalformedCode) {
			t.Fatalf("Decode(%q): expected ErrMalformedCode, got %v", code, err)
		}
	}
}

func TestDecodeInvalidTimestamp(t *testing.T) {
	cases := []string{
		"D-A100-20241318235512-100",
		"D-A100-20240230120000-100",
		"D-A100-20241018245512-100",
		"D-A100-2024101823551-100",
		"D-A100-202410182355120-100",
		"D-A100-2024+018235512-100",
		"D-A100-2024-10-18T23:55:12-100",
	}
	for _, code := range cases {
		_, err := Decode(code)
		if strings.Count(code, "-") != 3 {
			if !errors.Is(err, ErrMalformedCode) {
				t.Fatalf("Decode(%q): expected ErrMalformedCode, got %v", code, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidTimestamp) {
			t.Fatalf("Decode(%q): expected ErrInvalidTimestamp, got %v", code, err)
		}
	}
}

func TestDecodeInRequiresConstructedOffset(t *testing.T) {
	if _, err := DecodeIn("D-A100-20241018235512-100", tz.FixedOffset{}); !errors.Is(err, ErrInvalidTimeZoneArgument) {
		t.Fatalf("expected ErrInvalidTimeZoneArgument, got %v", err)
	}
}
