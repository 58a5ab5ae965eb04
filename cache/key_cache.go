package cache

import (
	"time"

	c "github.com/patrickmn/go-cache"
)

// KeyCache remembers resolved api keys for ttl. Only hits are stored, so a
// newly issued key works on its first request.
type KeyCache[T any] struct {
	cache *c.Cache
	ttl   time.Duration
}

func NewKeyCache[T any](ttl time.Duration) *KeyCache[T] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &KeyCache[T]{
		cache: c.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (ch *KeyCache[T]) Save(key string, value T) {
	ch.cache.Set(key, value, ch.ttl)
}

func (ch *KeyCache[T]) Get(key string) (T, bool) {
	v, found := ch.cache.Get(key)
	if found {
		if value, ok := v.(T); ok {
			return value, true
		}
	}
	var zero T
	return zero, false
}

func (ch *KeyCache[T]) Invalidate(key string) {
	ch.cache.Delete(key)
}
