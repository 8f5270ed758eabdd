package asciihex

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// warnCacheTTL bounds how often an identical malformed line is reported
// back to a caller's onError/onMalformed handler: one report per
// distinct line text per TTL window, the same recently-seen shape as
// the reference decoder's ICAO address cache.
const warnCacheTTL = 60 * time.Second

// WarnLimiter deduplicates repeated "malformed line" notifications so a
// noisy source (a demodulator stuck emitting the same garbage line)
// doesn't flood a log. Zero value is not usable; use NewWarnLimiter.
type WarnLimiter struct {
	seen *cache.Cache
}

// NewWarnLimiter returns a ready limiter.
func NewWarnLimiter() *WarnLimiter {
	return &WarnLimiter{seen: cache.New(warnCacheTTL, 10*time.Second)}
}

// Allow reports whether raw has not been seen within the TTL window,
// marking it seen as a side effect.
func (w *WarnLimiter) Allow(raw string) bool {
	if _, found := w.seen.Get(raw); found {
		return false
	}
	w.seen.SetDefault(raw, struct{}{})
	return true
}
