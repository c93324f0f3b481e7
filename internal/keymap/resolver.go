package keymap

import "slices"

// Resolver looks up the binding for a pressed key.
type Resolver struct {
	byKey  map[string]Binding
	keysOf map[Action][]string
}

// NewResolver indexes bindings by key. A key bound twice resolves to the
// later binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		byKey:  make(map[string]Binding, len(bindings)*2),
		keysOf: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			r.byKey[key] = b
			if !slices.Contains(r.keysOf[b.Action], key) {
				r.keysOf[b.Action] = append(r.keysOf[b.Action], key)
			}
		}
	}
	return r
}

// Default returns a resolver over All.
func Default() *Resolver {
	return NewResolver(All)
}

// Resolve returns the action bound to key, or "" when unbound.
func (r *Resolver) Resolve(key string) Action {
	return r.byKey[key].Action
}

// Lookup returns the full binding for key.
func (r *Resolver) Lookup(key string) (Binding, bool) {
	b, ok := r.byKey[key]
	return b, ok
}

// KeysFor returns the distinct keys bound to an action, in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keysOf[action]
}
