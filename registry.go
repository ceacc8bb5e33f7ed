package ripples

import "sync"

// Handle identifies an effect in a Registry. Handles are never reused.
type Handle uint64

// Registry maps host surfaces to their effects through stable handles.
// Surfaces are used as map keys, so implementations must be comparable
// (typically pointers). A Registry is safe for concurrent use; the effects
// it holds are not.
type Registry struct {
	mu        sync.RWMutex
	next      Handle
	effects   map[Handle]*Effect
	bySurface map[Surface]Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		effects:   make(map[Handle]*Effect),
		bySurface: make(map[Surface]Handle),
	}
}

// Attach creates an effect on surface, or returns the existing handle when
// the surface already has one; options are ignored in that case.
func (r *Registry) Attach(surface Surface, opts ...Option) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.bySurface[surface]; ok {
		return h, nil
	}
	e, err := New(surface, opts...)
	if err != nil {
		return 0, err
	}
	r.next++
	h := r.next
	r.effects[h] = e
	r.bySurface[surface] = h
	return h, nil
}

// Get returns the effect for h.
func (r *Registry) Get(h Handle) (*Effect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.effects[h]
	return e, ok
}

// Lookup returns the handle attached to surface.
func (r *Registry) Lookup(surface Surface) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.bySurface[surface]
	return h, ok
}

// Destroy destroys the effect for h and forgets it. Unknown handles are
// ignored.
func (r *Registry) Destroy(h Handle) {
	r.mu.Lock()
	e, ok := r.effects[h]
	if ok {
		r.remove(h, e)
	}
	r.mu.Unlock()
	if ok {
		e.Destroy()
	}
}

// TickAll ticks every effect and forgets those that report they are done.
func (r *Registry) TickAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, e := range r.effects {
		if !e.Tick() {
			r.remove(h, e)
		}
	}
}

// Len returns the number of live effects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.effects)
}

func (r *Registry) remove(h Handle, e *Effect) {
	delete(r.effects, h)
	delete(r.bySurface, e.surface)
}
