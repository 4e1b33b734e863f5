package server

import (
	"sync"
	"time"

	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/patrickmn/go-cache"
)

// Bulb status as returned by the API.
type bulbView struct {
	Name    string       `json:"name"`
	Online  bool         `json:"online"`
	Address string       `json:"ip"`
	Version string       `json:"version"`
	Error   string       `json:"error,omitempty"`
	Status  *bulb.Status `json:"status,omitempty"`
}

// Short living bulbs status cache.
type statusCache struct {
	controller *bulb.Controller
	cache      *cache.Cache
}

// Constructs a new cache. Non positive TTL disables caching.
func newStatusCache(controller *bulb.Controller, ttl time.Duration) *statusCache {
	c := &statusCache{controller: controller}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}

	return c
}

// Get returns cached status or reads it from the bulb. Failures are not cached.
func (c *statusCache) Get(b *providers.NamedBulb) (*bulb.Status, error) {
	if nil != c.cache {
		if st, ok := c.cache.Get(b.Name); ok {
			return st.(*bulb.Status), nil
		}
	}

	st, err := c.controller.GetStatus(b)
	if err != nil {
		return nil, err
	}

	if nil != c.cache {
		c.cache.SetDefault(b.Name, st)
	}

	return st, nil
}

// Invalidate drops cached status.
func (c *statusCache) Invalidate(name string) {
	if nil != c.cache {
		c.cache.Delete(name)
	}
}

// Reads status of all bulbs in parallel.
func (s *BulbServer) allStatuses() map[string]*bulbView {
	devices := s.registry.Devices()
	out := make(map[string]*bulbView, len(devices))
	lock := sync.Mutex{}
	wg := sync.WaitGroup{}

	for _, d := range devices {
		v := &bulbView{Name: d.Name, Address: d.Address, Version: d.Version}
		out[d.Name] = v

		wg.Add(1)
		go func(v *bulbView) {
			defer wg.Done()

			bulbs, err := s.registry.Resolve(v.Name)
			var st *bulb.Status
			if err == nil {
				st, err = s.cache.Get(bulbs[0])
			}

			lock.Lock()
			defer lock.Unlock()

			if err != nil {
				v.Error = err.Error()
				return
			}

			v.Online = true
			v.Status = st
		}(v)
	}

	wg.Wait()
	return out
}
