package sampling

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"k8s.io/klog/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

const (
	// DefaultCacheExpiration is how long an enumeration is kept.
	DefaultCacheExpiration = 10 * time.Minute
	cacheCleanupInterval   = 20 * time.Minute
)

type enumeration struct {
	x        framework.Matrix
	isActive framework.Mask
}

// CachedEnumerator keeps the valid discrete design vectors of problems
// around, keyed by problem name, so repeated sampling does not enumerate the
// same design space again.
type CachedEnumerator struct {
	Sampling *HierarchicalExhaustiveSampling
	cache    *gocache.Cache
}

func NewCachedEnumerator(sampling *HierarchicalExhaustiveSampling, expiration time.Duration) *CachedEnumerator {
	if sampling == nil {
		sampling = NewHierarchicalExhaustiveSampling(nil, 1)
	}
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	return &CachedEnumerator{
		Sampling: sampling,
		cache:    gocache.New(expiration, cacheCleanupInterval),
	}
}

// AllDiscreteX returns the enumeration of p from the cache, enumerating it
// on a miss. Returned matrices are copies.
func (c *CachedEnumerator) AllDiscreteX(ctx context.Context, p framework.Problem) (framework.Matrix, framework.Mask, error) {
	logger := klog.FromContext(ctx)
	if v, ok := c.cache.Get(p.Name()); ok {
		e := v.(*enumeration)
		logger.V(5).Info("Enumeration cache hit", "problem", p.Name())
		return e.x.Clone(), e.isActive.Clone(), nil
	}

	x, isActive, err := c.Sampling.AllDiscreteX(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	c.cache.SetDefault(p.Name(), &enumeration{x: x.Clone(), isActive: isActive.Clone()})
	return x, isActive, nil
}

// Wrap returns p extended with a cached DiscreteEnumerator, so samplers
// take the cheap path for it. If the design space is too large to enumerate
// p is returned as is.
func (c *CachedEnumerator) Wrap(ctx context.Context, p framework.Problem) (framework.Problem, error) {
	x, isActive, err := c.AllDiscreteX(ctx, p)
	if errors.Is(err, framework.ErrEnumerationInfeasible) {
		klog.FromContext(ctx).V(2).Info("Not caching enumeration", "problem", p.Name(), "err", err)
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	return &enumeratedProblem{Problem: p, x: x, isActive: isActive}, nil
}

// Invalidate drops the cached enumeration of the named problem.
func (c *CachedEnumerator) Invalidate(name string) {
	c.cache.Delete(name)
}

type enumeratedProblem struct {
	framework.Problem
	x        framework.Matrix
	isActive framework.Mask
}

func (p *enumeratedProblem) AllDiscreteX() (framework.Matrix, framework.Mask, bool) {
	return p.x.Clone(), p.isActive.Clone(), true
}
