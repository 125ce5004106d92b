package httpclient

import (
	"strconv"
	"time"
)

// CacheLevel selects the Cache-Control directives sent with a request.
type CacheLevel int

const (
	// CacheDefault sends no cache directives.
	CacheDefault CacheLevel = iota
	// CacheNoCacheNoStore forbids cached responses and storage.
	CacheNoCacheNoStore
	// CacheMaxAge accepts responses up to MaxAge old.
	CacheMaxAge
	// CacheMaxAgeAndMaxStale also accepts responses stale by up to MaxStale.
	CacheMaxAgeAndMaxStale
	// CacheMaxAgeAndMinFresh requires responses fresh for at least MinFresh.
	CacheMaxAgeAndMinFresh
)

// CachePolicy describes the request cache directives.
type CachePolicy struct {
	Level    CacheLevel
	MaxAge   time.Duration
	MaxStale time.Duration
	MinFresh time.Duration
}

// headers returns the Cache-Control and Pragma values for p. Empty values
// are not sent.
func (p CachePolicy) headers() (cacheControl, pragma string) {
	switch p.Level {
	case CacheNoCacheNoStore:
		return "no-cache, no-store", "no-cache"
	case CacheMaxAge:
		return "max-age=" + seconds(p.MaxAge), ""
	case CacheMaxAgeAndMaxStale:
		return "max-age=" + seconds(p.MaxAge) + ", max-stale=" + seconds(p.MaxStale), ""
	case CacheMaxAgeAndMinFresh:
		return "max-age=" + seconds(p.MaxAge) + ", min-fresh=" + seconds(p.MinFresh), ""
	}
	return "", ""
}

func seconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return strconv.FormatInt(int64(d/time.Second), 10)
}

// SetCacheControlToNoCache sends "Cache-Control: no-cache, no-store".
func (r *Request) SetCacheControlToNoCache() {
	r.CachePolicy = &CachePolicy{Level: CacheNoCacheNoStore}
}

// SetCacheControlWithMaxAge accepts cached responses up to maxAge old.
func (r *Request) SetCacheControlWithMaxAge(maxAge time.Duration) {
	r.CachePolicy = &CachePolicy{Level: CacheMaxAge, MaxAge: maxAge}
}

// SetCacheControlWithMaxAgeAndMaxStale accepts cached responses up to
// maxAge old and stale by up to maxStale.
func (r *Request) SetCacheControlWithMaxAgeAndMaxStale(maxAge, maxStale time.Duration) {
	r.CachePolicy = &CachePolicy{Level: CacheMaxAgeAndMaxStale, MaxAge: maxAge, MaxStale: maxStale}
}

// SetCacheControlWithMaxAgeAndMinFresh accepts cached responses up to
// maxAge old that stay fresh for at least minFresh.
func (r *Request) SetCacheControlWithMaxAgeAndMinFresh(maxAge, minFresh time.Duration) {
	r.CachePolicy = &CachePolicy{Level: CacheMaxAgeAndMinFresh, MaxAge: maxAge, MinFresh: minFresh}
}
