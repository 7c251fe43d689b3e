// Package cache persists the raw loads of reference designs between runs.
//
// Entries are keyed by reference name (the workbook base name). They are never
// invalidated automatically: a changed reference workbook or regressor set is
// picked up only after the entry is cleared.
package cache

import (
	"context"
	"time"

	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

// Store looks up and stores reference loads.
type Store interface {
	// Lookup returns the loads of name and whether they were present.
	Lookup(ctx context.Context, name string) (models.ReferenceLoads, bool, error)
	// Store writes loads under loads.Name, replacing any previous entry.
	Store(ctx context.Context, loads models.ReferenceLoads) error
}

// Entry describes one cached reference.
type Entry struct {
	Name       string    `json:"name"`
	Sites      int       `json:"sites"`
	ComputedAt time.Time `json:"computed_at"`
}

// Lister enumerates and removes cached references.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) (int, error)
}

// GetOrCompute returns the cached loads of name. On a miss it calls compute,
// stores the result and returns it. hit reports whether the cache served
// the loads.
func GetOrCompute(ctx context.Context, s Store, name string, compute func() (models.ReferenceLoads, error)) (loads models.ReferenceLoads, hit bool, err error) {
	loads, ok, err := s.Lookup(ctx, name)
	if err != nil {
		return loads, false, err
	}
	if ok {
		return loads, true, nil
	}
	loads, err = compute()
	if err != nil {
		return loads, false, err
	}
	loads = named(name, loads)
	if err := s.Store(ctx, loads); err != nil {
		return loads, false, err
	}
	return loads, false, nil
}

func named(name string, l models.ReferenceLoads) models.ReferenceLoads {
	l.Name = name
	l.UL.Name = name
	l.FL.Name = name
	return l
}
