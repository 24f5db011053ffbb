package util

import "time"

// SkipThrottler reports Ok at most once per duration, skipping calls in between.
type SkipThrottler struct {
	d    time.Duration
	last time.Time
	now  func() time.Time
}

func NewSkipThrottler(d time.Duration) *SkipThrottler {
	tt := &SkipThrottler{d: d, last: time.Date(0, 0, 0, 0, 0, 0, 0, time.UTC), now: time.Now}
	return tt
}

func (tt *SkipThrottler) Ok() bool {
	now := tt.now()
	if now.Before(tt.last.Add(tt.d)) {
		return false
	}

	tt.last = now
	return true
}
