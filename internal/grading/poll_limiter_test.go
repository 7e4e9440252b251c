package grading

import (
	"testing"
	"time"
)

func TestPollLimiterAllow(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	l := newPollLimiter(time.Second, clock)

	if !l.Allow("u-1", "grd-1") {
		t.Fatal("first hit must pass")
	}
	if l.Allow("u-1", "grd-1") {
		t.Fatal("second hit inside the window must be limited")
	}
	if !l.Allow("u-1", "grd-2") {
		t.Fatal("different grading must not share the window")
	}
	if !l.Allow("u-2", "grd-1") {
		t.Fatal("different user must not share the window")
	}

	now = now.Add(time.Second)
	if !l.Allow("u-1", "grd-1") {
		t.Fatal("hit after the window must pass")
	}
}

func TestPollLimiterNil(t *testing.T) {
	var l *pollLimiter
	if !l.Allow("u-1", "grd-1") {
		t.Fatal("nil limiter must allow everything")
	}
	if l.RetryAfterSeconds() != 1 {
		t.Errorf("RetryAfterSeconds = %d", l.RetryAfterSeconds())
	}
}
