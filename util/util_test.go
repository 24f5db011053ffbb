package util

import (
	"testing"
	"time"
)

func TestSkipThrottler(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tt := NewSkipThrottler(time.Minute)
	tt.now = func() time.Time { return now }

	steps := []struct {
		advance time.Duration
		ok      bool
	}{
		{advance: 0, ok: true},
		{advance: time.Second, ok: false},
		{advance: 58 * time.Second, ok: false},
		{advance: time.Second, ok: true},
		{advance: time.Second, ok: false},
	}
	for i, s := range steps {
		now = now.Add(s.advance)
		if ok := tt.Ok(); ok != s.ok {
			t.Fatalf("%d %t, expected %t", i, ok, s.ok)
		}
	}
}
