package policy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/entitycache/pkg/cache"
)

const (
	selectorID   = "id"
	selectorList = "list"
)

// Config describes how one entity type is cached.
type Config struct {
	// Namespace is the first key segment, e.g. "customer".
	Namespace string
	// UniqueField names the optional alternate lookup, e.g. "email".
	UniqueField string
	// TTL applies to every entry of this entity.
	TTL time.Duration
	// Aggregates are derived keys ("<namespace>:<name>") purged on every write,
	// e.g. "stats".
	Aggregates []string
}

// Policy derives cache keys and invalidation sets for one entity type.
// A Policy is immutable and safe for concurrent use.
type Policy[K comparable] struct {
	cfg Config
}

// New validates cfg and returns a policy for entities identified by K.
//
// Example:
//
//	customers, err := policy.New[int64](policy.Config{
//	    Namespace:   "customer",
//	    UniqueField: "email",
//	    TTL:         30 * time.Minute,
//	})
func New[K comparable](cfg Config) (*Policy[K], error) {
	if err := validateSegment(cfg.Namespace); err != nil {
		return nil, fmt.Errorf("%w: namespace %q: %w", ErrInvalidConfig, cfg.Namespace, err)
	}

	reserved := []string{selectorID, selectorList}
	if cfg.UniqueField != "" {
		if err := validateSegment(cfg.UniqueField); err != nil {
			return nil, fmt.Errorf("%w: unique field %q: %w", ErrInvalidConfig, cfg.UniqueField, err)
		}
		if slices.Contains(reserved, cfg.UniqueField) {
			return nil, fmt.Errorf("%w: unique field %q is a reserved selector", ErrInvalidConfig, cfg.UniqueField)
		}
		reserved = append(reserved, cfg.UniqueField)
	}

	for _, name := range cfg.Aggregates {
		if err := validateSegment(name); err != nil {
			return nil, fmt.Errorf("%w: aggregate %q: %w", ErrInvalidConfig, name, err)
		}
		if slices.Contains(reserved, name) {
			return nil, fmt.Errorf("%w: aggregate %q collides with a selector", ErrInvalidConfig, name)
		}
	}

	cfg.Aggregates = slices.Clone(cfg.Aggregates)

	return &Policy[K]{cfg: cfg}, nil
}

// MustNew is like New but panics on an invalid config.
func MustNew[K comparable](cfg Config) *Policy[K] {
	p, err := New[K](cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Namespace returns the first key segment.
func (p *Policy[K]) Namespace() string { return p.cfg.Namespace }

// TTL returns the lifetime of entries of this entity.
func (p *Policy[K]) TTL() time.Duration { return p.cfg.TTL }

// KeyByID returns "<namespace>:id:<id>".
func (p *Policy[K]) KeyByID(id K) string {
	return p.key(selectorID, fmt.Sprint(id))
}

// KeyByUnique returns "<namespace>:<field>:<value>". ok is false when the
// policy has no unique field or value is empty.
func (p *Policy[K]) KeyByUnique(value string) (key string, ok bool) {
	if p.cfg.UniqueField == "" || value == "" {
		return "", false
	}
	return p.key(p.cfg.UniqueField, value), true
}

// KeyForList returns "<namespace>:list:<canonical query>". A nil query and an
// empty one share the key "<namespace>:list:{}".
func (p *Policy[K]) KeyForList(query any) (string, error) {
	if query == nil {
		return p.key(selectorList, "{}"), nil
	}

	canonical, err := Canonical(query)
	if err != nil {
		return "", err
	}
	if canonical == "null" {
		canonical = "{}"
	}

	return p.key(selectorList, canonical), nil
}

// ListPattern returns the glob matching every list key, "<namespace>:list:*".
func (p *Policy[K]) ListPattern() string {
	return p.cfg.Namespace + ":" + selectorList + ":*"
}

// AggregateKey returns "<namespace>:<name>".
func (p *Policy[K]) AggregateKey(name string) string {
	return p.cfg.Namespace + ":" + name
}

// OnCreate returns what a create must purge: every list plus the aggregates.
// No id or unique key can be cached yet for a new entity.
func (p *Policy[K]) OnCreate() cache.InvalidationSet {
	return cache.InvalidationSet{
		Keys:     p.aggregateKeys(nil),
		Patterns: []string{p.ListPattern()},
	}
}

// OnUpdate returns what an update must purge: the id key, the old unique key,
// the new unique key when it changed, every list and the aggregates.
func (p *Policy[K]) OnUpdate(id K, oldUnique, newUnique string) cache.InvalidationSet {
	keys := []string{p.KeyByID(id)}
	if k, ok := p.KeyByUnique(oldUnique); ok {
		keys = append(keys, k)
	}
	if newUnique != oldUnique {
		if k, ok := p.KeyByUnique(newUnique); ok {
			keys = append(keys, k)
		}
	}

	return cache.InvalidationSet{
		Keys:     p.aggregateKeys(keys),
		Patterns: []string{p.ListPattern()},
	}
}

// OnDelete returns what a delete must purge: the id key, the unique key, every
// list and the aggregates.
func (p *Policy[K]) OnDelete(id K, unique string) cache.InvalidationSet {
	keys := []string{p.KeyByID(id)}
	if k, ok := p.KeyByUnique(unique); ok {
		keys = append(keys, k)
	}

	return cache.InvalidationSet{
		Keys:     p.aggregateKeys(keys),
		Patterns: []string{p.ListPattern()},
	}
}

func (p *Policy[K]) aggregateKeys(keys []string) []string {
	for _, name := range p.cfg.Aggregates {
		keys = append(keys, p.AggregateKey(name))
	}
	return keys
}

func (p *Policy[K]) key(selector, discriminator string) string {
	return p.cfg.Namespace + ":" + selector + ":" + discriminator
}

func validateSegment(s string) error {
	switch {
	case s == "":
		return errors.New("must not be empty")
	case strings.ContainsAny(s, `:*?[]\ `):
		return errors.New("must not contain ':', whitespace or glob metacharacters")
	}
	return nil
}
