// Package confirmation encodes and decodes the confirmation codes returned by
// balance-changing operations:
//
//	<kind>-<accountNumber>-<YYYYMMDDHHMMSS>-<sequenceId>
//
// The timestamp is UTC with no separators or zone suffix.
package confirmation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/congo-pay/account_ledger/internal/tz"
)

var (
	// ErrMalformedCode indicates a code that does not have exactly four
	// non-empty dash-separated fields, or fields that cannot be encoded.
	ErrMalformedCode = errors.New("malformed confirmation code")

	// ErrInvalidTimestamp indicates a timestamp field that is not a valid
	// YYYYMMDDHHMMSS calendar value.
	ErrInvalidTimestamp = errors.New("invalid confirmation timestamp")

	// ErrInvalidTimeZoneArgument indicates decoding was asked to use an offset
	// that was never constructed.
	ErrInvalidTimeZoneArgument = errors.New("invalid time zone argument")
)

// Operation kinds emitted by accounts. The codec treats kinds as opaque, so
// callers may use any dash-free token.
const (
	KindDeposit  = "D"
	KindWithdraw = "W"
	KindRejected = "X"
	KindInterest = "I"
)

const (
	separator       = "-"
	timestampLayout = "20060102150405"
)

// Record is the decoded form of a confirmation code.
type Record struct {
	Kind          string
	AccountNumber string
	SequenceID    int64
	TimeUTC       time.Time
	TimeLocal     time.Time
	TimeZone      string
}

// Encode renders a confirmation code. at is converted to UTC and truncated to
// the second.
func Encode(kind, accountNumber string, at time.Time, sequenceID int64) (string, error) {
	if err := checkField("kind", kind); err != nil {
		return "", err
	}
	if err := checkField("account number", accountNumber); err != nil {
		return "", err
	}
	if sequenceID < 0 {
		return "", fmt.Errorf("%w: sequence id must not be negative", ErrMalformedCode)
	}
	ts := at.UTC().Format(timestampLayout)
	if len(ts) != len(timestampLayout) {
		return "", fmt.Errorf("%w: year %d does not fit the code format", ErrInvalidTimestamp, at.UTC().Year())
	}
	return strings.Join([]string{kind, accountNumber, ts, strconv.FormatInt(sequenceID, 10)}, separator), nil
}

func checkField(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is empty", ErrMalformedCode, field)
	}
	if strings.Contains(value, separator) {
		return fmt.Errorf("%w: %s %q contains %q", ErrMalformedCode, field, value, separator)
	}
	return nil
}

// Decode parses a code and reports its time in UTC.
func Decode(code string) (Record, error) {
	return DecodeIn(code, tz.UTC())
}

// DecodeIn parses a code and also reports its time shifted into offset.
func DecodeIn(code string, offset tz.FixedOffset) (Record, error) {
	if offset.IsZero() {
		return Record{}, ErrInvalidTimeZoneArgument
	}

	parts := strings.Split(code, separator)
	if len(parts) != 4 {
		return Record{}, fmt.Errorf("%w: expected 4 fields, got %d", ErrMalformedCode, len(parts))
	}
	for i, p := range parts {
		if p == "" {
			return Record{}, fmt.Errorf("%w: field %d is empty", ErrMalformedCode, i+1)
		}
	}

	at, err := parseTimestamp(parts[2])
	if err != nil {
		return Record{}, err
	}

	seq, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: sequence id %q: %v", ErrMalformedCode, parts[3], err)
	}

	return Record{
		Kind:          parts[0],
		AccountNumber: parts[1],
		SequenceID:    seq,
		TimeUTC:       at,
		TimeLocal:     offset.In(at),
		TimeZone:      offset.Name(),
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if len(s) != len(timestampLayout) {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYYMMDDHHMMSS", ErrInvalidTimestamp, s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return time.Time{}, fmt.Errorf("%w: %q is not YYYYMMDDHHMMSS", ErrInvalidTimestamp, s)
		}
	}
	at, err := time.ParseInLocation(timestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	return at, nil
}
