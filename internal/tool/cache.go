package tool

import (
	"context"
	"time"

	"taskman/internal/logger"
)

// Lister discovers the tool schema from the task server
type Lister interface {
	ListTools(ctx context.Context) ([]Descriptor, error)
}

// Freshness classifies the age of a cached dynamic schema
type Freshness string

const (
	FreshnessFresh  Freshness = "fresh"  // fetched less than a minute ago
	FreshnessCached Freshness = "cached" // within TTL
	FreshnessStale  Freshness = "stale"  // past TTL, eligible for re-fetch
	FreshnessFailed Freshness = "failed" // nothing cached
)

// freshWindow is the age below which a cached schema counts as fresh
const freshWindow = 60 * time.Second

// Cache holds the most recently discovered tool schema for one session.
// It is owned by exactly one session and is not safe for concurrent use.
type Cache struct {
	schema    *Schema
	fetchedAt time.Time
	ttl       time.Duration
	lister    Lister
	log       *logger.Logger

	now func() time.Time
}

// NewCache creates an empty schema cache with the given TTL
func NewCache(lister Lister, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		ttl:    ttl,
		lister: lister,
		log:    log,
		now:    time.Now,
	}
}

// Freshness reports the staleness classification of the cached schema.
// Staleness is derived from age, never stored.
func (c *Cache) Freshness() Freshness {
	if c.schema == nil {
		return FreshnessFailed
	}
	age := c.now().Sub(c.fetchedAt)
	switch {
	case age < freshWindow:
		return FreshnessFresh
	case age < c.ttl:
		return FreshnessCached
	default:
		return FreshnessStale
	}
}

// GetSchema returns the active tool schema. With preferDynamic false it
// returns the built-in static schema, which never fails. With preferDynamic
// true it serves the cache while usable and otherwise attempts discovery;
// a failed fetch leaves the cache untouched and falls back to the static
// schema, so the caller always gets a schema with a defined source.
func (c *Cache) GetSchema(ctx context.Context, preferDynamic, forceRefresh bool) *Schema {
	if !preferDynamic {
		return StaticSchema()
	}

	if !forceRefresh {
		switch c.Freshness() {
		case FreshnessFresh, FreshnessCached:
			return c.schema
		}
	}

	tools, err := c.lister.ListTools(ctx)
	if err != nil {
		c.log.Warn("Tool discovery failed, using static schema: %v", err)
		return StaticSchema()
	}

	c.schema = &Schema{
		Tools:     tools,
		Source:    SourceDynamic,
		FetchedAt: c.now(),
	}
	c.fetchedAt = c.schema.FetchedAt
	c.log.Debug("Discovered %d tools from server", len(tools))
	return c.schema
}
