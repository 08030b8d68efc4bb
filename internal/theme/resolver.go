package theme

import (
	"net/url"
	"slices"
	"sync"
)

// Resolver keeps the effective theme in step with its inputs. Every setter
// recomputes before returning and then notifies subscribers, so Current
// never lags behind the last input it was given.
type Resolver struct {
	mu      sync.Mutex
	def     Config
	tenant  *RestaurantTheme
	params  url.Values
	current Config
	subs    []func(Config)
}

func NewResolver(def Config) *Resolver {
	return &Resolver{def: def, current: def}
}

func (r *Resolver) Current() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Resolver) Preview() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return IsPreview(r.params)
}

// Subscribe registers fn and calls it once with the current theme.
func (r *Resolver) Subscribe(fn func(Config)) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	cur := r.current
	r.mu.Unlock()
	fn(cur)
}

func (r *Resolver) SetTenant(t *RestaurantTheme) Config {
	return r.update(func() { r.tenant = t })
}

func (r *Resolver) SetParams(params url.Values) Config {
	return r.update(func() { r.params = params })
}

func (r *Resolver) update(set func()) Config {
	r.mu.Lock()
	set()
	r.current = Resolve(r.def, r.tenant, r.params)
	cur := r.current
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(cur)
	}
	return cur
}
