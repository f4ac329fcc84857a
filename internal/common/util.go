package common

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// MakeRandHexString returns size random bytes encoded as lowercase hex, so
// the result is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NormalizeTime drops monotonic readings and sub-millisecond precision and
// converts t to UTC, so values round-trip through every store unchanged.
func NormalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Millisecond)
}

// FormatTimestamp renders t in TimestampLayout after normalizing it.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return NormalizeTime(t).Format(TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp. An empty string yields
// the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeTime(t), nil
}
