package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "decode", "D-A100-20241018235512-100", "--tz", "MST", "--hours", "-7")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{"kind:        D", "account:     A100", "sequence id: 100", "2024-10-18T23:55:12Z", "2024-10-18T16:55:12-07:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	if _, err := run(t, "decode", "D-A100-bad-100"); err == nil {
		t.Fatalf("expected error for invalid timestamp")
	}
	if _, err := run(t, "decode", "D-A100-20241018235512-100", "--hours", "20"); err == nil {
		t.Fatalf("expected error for out of range offset")
	}
}

func TestEncodeCommand(t *testing.T) {
	out, err := run(t, "encode", "--kind", "W", "--account", "A100", "--seq", "101", "--at", "2024-10-18T16:55:12-07:00")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.TrimSpace(out) != "W-A100-20241018235512-101" {
		t.Fatalf("unexpected code %q", out)
	}

	if _, err := run(t, "encode", "--account", "A-1", "--seq", "1"); err == nil {
		t.Fatalf("expected error for dashed account")
	}
}

func TestSimulateCommand(t *testing.T) {
	out, err := run(t, "simulate", "--balance", "200", "--at", "2024-10-18T23:55:12Z",
		"--tz", "IST", "--hours", "5", "--minutes", "30",
		"--sqlite", filepath.Join(t.TempDir(), "sim.db"))
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, want := range []string{
		"D-A100-20241018235512-100 balance=300",
		"W-A100-20241018235512-101 balance=270",
		"rejected X-A100-20241018235512-102 balance=270",
		"I-A100-20241018235512-103 balance=271.35",
		"first code at local time 2024-10-19 05:25:12 +05:30",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSimulateResumesOnExistingJournal(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sim.db")
	args := []string{"simulate", "--balance", "200", "--at", "2024-10-18T23:55:12Z", "--sqlite", db}
	if _, err := run(t, args...); err != nil {
		t.Fatalf("first simulate: %v", err)
	}
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("second simulate: %v", err)
	}
	for _, want := range []string{
		"D-A100-20241018235512-104 balance=300",
		"I-A100-20241018235512-107 balance=271.35",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
