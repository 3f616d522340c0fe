package speech

import (
	"context"
	"log/slog"

	"github.com/ozgurozkan123/ai4.coach/cache"
)

// Cached wraps a Synthesizer with a best-effort audio cache so repeated
// answers do not hit the API again. Cache failures never fail synthesis.
type Cached struct {
	inner Synthesizer
	cache *cache.Cache
	scope []string
}

// NewCached wraps inner with a cache. The scope parts (voice, model)
// keep entries from leaking across configurations.
func NewCached(inner Synthesizer, c *cache.Cache, scope ...string) *Cached {
	return &Cached{inner: inner, cache: c, scope: scope}
}

// Synthesize returns cached audio when available, calling through and
// storing the result otherwise.
func (s *Cached) Synthesize(ctx context.Context, text string) ([]byte, error) {
	key := cache.Key(append(s.scope, text)...)

	if audio, ok := s.cache.Get(key); ok {
		slog.Debug("synthesis cache hit", "bytes", len(audio))
		return audio, nil
	}

	audio, err := s.inner.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, audio, cache.DefaultTTL); err != nil {
		slog.Warn("cache synthesized audio", "error", err)
	}
	return audio, nil
}
