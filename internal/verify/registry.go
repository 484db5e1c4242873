package verify

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry keeps one Controller per signed-in user. Least recently used
// controllers are dropped once size is exceeded, except those still running an
// attempt or a history fetch: they are parked until idle so a user never gets a
// second controller while the first is working.
type Registry struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, *Controller]
	parked map[string]*Controller
	deps   *Deps
}

func NewRegistry(size int, deps *Deps) (*Registry, error) {
	r := &Registry{parked: map[string]*Controller{}, deps: deps}
	cache, err := lru.NewWithEvict[string, *Controller](size, r.evicted)
	if err != nil {
		return nil, fmt.Errorf("controller cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// evicted runs inside For with r.mu held.
func (r *Registry) evicted(userID string, c *Controller) {
	if c.busy() {
		r.parked[userID] = c
	}
}

// For returns the user's controller, creating it on first use.
func (r *Registry) For(userID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache.Get(userID); ok {
		return c
	}
	c, ok := r.parked[userID]
	if ok {
		delete(r.parked, userID)
	} else {
		c = NewController(userID, r.deps)
	}
	r.sweep()
	r.cache.Add(userID, c)
	return c
}

// sweep forgets parked controllers that have finished.
func (r *Registry) sweep() {
	for id, c := range r.parked {
		if !c.busy() {
			delete(r.parked, id)
		}
	}
}

// Len reports how many controllers are cached, parked ones included.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len() + len(r.parked)
}
