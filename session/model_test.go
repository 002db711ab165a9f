package session

import (
	"testing"
	"time"
)

func TestExpiredBoundary(t *testing.T) {
	created := time.Unix(1_700_000_000, 0)
	sess := &Session{
		ID:        "boundary",
		UserID:    "u-1",
		Role:      "patient",
		CreatedAt: created,
		TTL:       time.Hour,
	}

	cases := []struct {
		elapsed time.Duration
		expired bool
	}{
		{0, false},
		{time.Second, false},
		{time.Hour - time.Second, false},
		{time.Hour - time.Nanosecond, false},
		{time.Hour, true}, // expired at exactly the lifetime
		{time.Hour + time.Nanosecond, true},
		{24 * time.Hour, true},
	}

	for _, tc := range cases {
		if got := sess.Expired(created.Add(tc.elapsed)); got != tc.expired {
			t.Errorf("Expired at elapsed %v = %v, want %v", tc.elapsed, got, tc.expired)
		}
	}
}

func TestExpiresAt(t *testing.T) {
	created := time.Unix(1_700_000_000, 0)
	sess := &Session{CreatedAt: created, TTL: time.Hour}

	if got := sess.ExpiresAt(); !got.Equal(created.Add(time.Hour)) {
		t.Fatalf("ExpiresAt = %v, want %v", got, created.Add(time.Hour))
	}
}
