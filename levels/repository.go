package levels

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

var ErrUnknownLevel = errors.New("unknown level")

// Repository hands out built levels by id or name. Levels are built once
// and shared; game.Level is immutable after Build.
type Repository struct {
	mu    sync.Mutex
	defs  []Definition
	built map[string]*game.Level
	cache *Cache
	log   *slog.Logger
}

// NewRepository serves defs. cache may be nil to always compute distances.
func NewRepository(defs []Definition, cache *Cache, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		defs:  append([]Definition(nil), defs...),
		built: map[string]*game.Level{},
		cache: cache,
		log:   log,
	}
}

// IDs lists the level ids in declaration order.
func (r *Repository) IDs() []string {
	ids := make([]string, len(r.defs))
	for i, d := range r.defs {
		ids[i] = d.ID
	}
	return ids
}

func (r *Repository) find(key string) (Definition, bool) {
	for _, d := range r.defs {
		if d.ID == key || d.Name == key {
			return d, true
		}
	}
	return Definition{}, false
}

// Get returns the level whose id or name is key.
func (r *Repository) Get(key string) (*game.Level, error) {
	def, ok := r.find(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.built[def.ID]; ok {
		return l, nil
	}
	l, err := r.build(def)
	if err != nil {
		return nil, err
	}
	r.built[def.ID] = l
	return l, nil
}

func (r *Repository) build(def Definition) (*game.Level, error) {
	b, err := def.builder()
	if err != nil {
		return nil, err
	}
	if r.cache == nil {
		return b.Build()
	}

	checksum := def.Checksum()
	d, ok, err := r.cache.Load(checksum)
	if err != nil {
		r.log.Warn("ignoring level cache", "level", def.ID, "error", err)
	}
	if ok {
		r.log.Debug("level distances from cache", "level", def.ID, "pairs", len(d))
		return b.SetClusterDistances(d).Build()
	}

	l, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := r.cache.Store(checksum, def.ID, l.ClusterDistances()); err != nil {
		r.log.Warn("could not write level cache", "level", def.ID, "error", err)
	} else {
		r.log.Debug("level distances cached", "level", def.ID, "pairs", len(l.ClusterDistances()))
	}
	return l, nil
}
