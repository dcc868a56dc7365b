// Package registry implements the process-wide codec/provider registry:
// named smithy.Codec providers registered with a priority, selectable by an
// environment override or, absent one, by highest priority.
//
// Grounded on the teacher's type_registry.go RegistryEntry generic-
// constructor pattern, generalized from "one entry per shape ID" to "one
// entry per named codec provider".
package registry

import (
	"os"
	"sort"
	"sync"

	smithy "github.com/modulert/smithy-go"
)

// EnvOverride is the environment variable consulted by Select before
// falling back to priority ordering.
const EnvOverride = "cbor-provider"

// Provider is a single named, prioritized codec factory. Higher Priority
// wins when no environment override names a provider explicitly.
type Provider struct {
	Name     string
	Priority int
	New      func() smithy.Codec
}

// CodecRegistry holds CBOR codec providers registered process-wide.
// Registration is insert-only (no removal) and safe for concurrent use, per
// the provider-selection scheduling rules: the codec/provider registry is
// process-wide, shared, and mutated only through safe insert-or-get
// semantics.
type CodecRegistry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewCodecRegistry returns an empty registry.
func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{providers: map[string]Provider{}}
}

// Register adds p to the registry. Registering a name that already exists
// is a no-op: the first entry under a name is kept (insert-or-get), and
// there is no removal.
func (r *CodecRegistry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[p.Name]; exists {
		return
	}
	r.providers[p.Name] = p
}

// Select resolves a codec per the provider-selection rules: an explicit
// cbor-provider environment override, if set and registered, wins outright;
// otherwise the highest-priority registered provider is used; otherwise def
// (the built-in default) is returned.
func (r *CodecRegistry) Select(def smithy.Codec) smithy.Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name := os.Getenv(EnvOverride); name != "" {
		if p, ok := r.providers[name]; ok {
			return p.New()
		}
	}
	if len(r.providers) == 0 {
		return def
	}
	best := bestProvider(r.providers)
	return best.New()
}

// SelectNamed resolves the provider registered under name, ignoring
// priority and the environment override. Used when a caller wants a
// specific provider rather than the process default.
func (r *CodecRegistry) SelectNamed(name string) (smithy.Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, false
	}
	return p.New(), true
}

func bestProvider(providers map[string]Provider) Provider {
	all := make([]Provider, 0, len(providers))
	for _, p := range providers {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Priority != all[j].Priority {
			return all[i].Priority > all[j].Priority
		}
		return all[i].Name < all[j].Name
	})
	return all[0]
}

// Default is the process-wide registry consulted by generated client code,
// populated through Register (the built-in CBOR provider registers itself
// from cbor_provider.go's init).
var Default = NewCodecRegistry()
