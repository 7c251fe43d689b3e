package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

// Counting wraps a Store and counts lookup hits and misses.
type Counting struct {
	inner  Store
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCounting returns s counting into hits and misses.
func NewCounting(s Store, hits, misses prometheus.Counter) *Counting {
	return &Counting{inner: s, hits: hits, misses: misses}
}

func (c *Counting) Lookup(ctx context.Context, name string) (models.ReferenceLoads, bool, error) {
	loads, ok, err := c.inner.Lookup(ctx, name)
	if err != nil {
		return loads, ok, err
	}
	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return loads, ok, nil
}

func (c *Counting) Store(ctx context.Context, loads models.ReferenceLoads) error {
	return c.inner.Store(ctx, loads)
}
