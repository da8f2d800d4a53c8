package page

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("page session not found")

// Registry keeps mounted pages between requests. A page lives for ttl after
// it is added; expiry, removal and eviction all unmount it. At most
// maxSessions pages are held, the oldest is evicted first.
type Registry struct {
	pages       *cache.Cache
	maxSessions int
	logger      *logrus.Logger

	mu    sync.Mutex
	order []string
}

// NewRegistry creates a registry. maxSessions <= 0 disables the cap.
func NewRegistry(ttl time.Duration, maxSessions int, logger *logrus.Logger) *Registry {
	return newRegistry(ttl, ttl/2, maxSessions, logger)
}

func newRegistry(ttl, cleanupInterval time.Duration, maxSessions int, logger *logrus.Logger) *Registry {
	r := &Registry{
		pages:       cache.New(ttl, cleanupInterval),
		maxSessions: maxSessions,
		logger:      logger,
	}
	r.pages.OnEvicted(func(id string, v interface{}) {
		if p, ok := v.(*Page); ok {
			p.Unmount()
		}
		logger.WithField("session", id).Debug("Page session closed")
	})
	return r
}

// Add stores p under a new session id, evicting the oldest sessions when the
// registry is full.
func (r *Registry) Add(p *Page) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSessions > 0 {
		for r.pages.ItemCount() >= r.maxSessions && len(r.order) > 0 {
			oldest := r.order[0]
			r.order = r.order[1:]
			if _, ok := r.pages.Get(oldest); ok {
				r.logger.WithField("session", oldest).Warn("Session limit reached, evicting oldest page")
			}
			r.pages.Delete(oldest)
		}
		r.compact()
	}

	r.order = append(r.order, id)
	r.pages.Set(id, p, cache.DefaultExpiration)
	return id
}

// compact drops ids of sessions that already expired or were removed.
func (r *Registry) compact() {
	if len(r.order) <= 2*r.maxSessions {
		return
	}
	live := r.pages.Items()
	kept := make([]string, 0, len(live))
	for _, id := range r.order {
		if _, ok := live[id]; ok {
			kept = append(kept, id)
		}
	}
	r.order = kept
}

// Get returns the page of a live session.
func (r *Registry) Get(id string) (*Page, error) {
	v, ok := r.pages.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return v.(*Page), nil
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	return len(r.pages.Items())
}

// Remove unmounts and forgets a session.
func (r *Registry) Remove(id string) error {
	if _, ok := r.pages.Get(id); !ok {
		return ErrSessionNotFound
	}
	r.pages.Delete(id)
	return nil
}

// Close unmounts every page, including expired ones the janitor has not
// collected yet.
func (r *Registry) Close() {
	r.pages.DeleteExpired()
	for id := range r.pages.Items() {
		r.pages.Delete(id)
	}

	r.mu.Lock()
	r.order = nil
	r.mu.Unlock()
}
