package soundio

import "sort"

// Registry holds the backends compiled into the program, ordered by kind
// priority. It is read-only after construction.
type Registry struct {
	backends []Backend
}

// NewRegistry creates a registry from the given backends. The first backend
// registered for a kind wins; nil backends and BackendNone are ignored.
func NewRegistry(backends ...Backend) *Registry {
	seen := make(map[BackendKind]struct{}, len(backends))
	r := &Registry{backends: make([]Backend, 0, len(backends))}
	for _, b := range backends {
		if b == nil || !b.Kind().Valid() {
			continue
		}
		if _, dup := seen[b.Kind()]; dup {
			continue
		}
		seen[b.Kind()] = struct{}{}
		r.backends = append(r.backends, b)
	}
	sort.SliceStable(r.backends, func(i, j int) bool {
		return r.backends[i].Kind() < r.backends[j].Kind()
	})
	return r
}

// Lookup returns the backend registered for kind.
func (r *Registry) Lookup(kind BackendKind) (Backend, bool) {
	if r == nil {
		return nil, false
	}
	for _, b := range r.backends {
		if b.Kind() == kind {
			return b, true
		}
	}
	return nil, false
}

// IsAvailable reports whether kind is compiled in and usable on this system.
func (r *Registry) IsAvailable(kind BackendKind) bool {
	b, ok := r.Lookup(kind)
	return ok && b.Available()
}

// Available returns the usable kinds, most preferred first.
func (r *Registry) Available() []BackendKind {
	if r == nil {
		return nil
	}
	kinds := make([]BackendKind, 0, len(r.backends))
	for _, b := range r.backends {
		if b.Available() {
			kinds = append(kinds, b.Kind())
		}
	}
	return kinds
}

// Compiled returns every registered kind regardless of availability.
func (r *Registry) Compiled() []BackendKind {
	if r == nil {
		return nil
	}
	kinds := make([]BackendKind, len(r.backends))
	for i, b := range r.backends {
		kinds[i] = b.Kind()
	}
	return kinds
}
