package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownVariant is returned when a variant name is not registered.
var ErrUnknownVariant = errors.New("unknown variant")

var (
	registry   = make(map[string]Variant)
	registryMu sync.RWMutex
)

// Register adds a variant to the registry.
// Panics if a variant with the same name is already registered.
func Register(v Variant) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[v.Name]; exists {
		panic(fmt.Sprintf("variant already registered: %s", v.Name))
	}
	if len(v.Sections) == 0 {
		panic(fmt.Sprintf("variant %s has no sections", v.Name))
	}

	registry[v.Name] = v
}

// Get returns a variant by name.
// Returns false if not found.
func Get(name string) (Variant, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	v, ok := registry[name]
	return v, ok
}

// Lookup is Get with an error suitable for returning to callers.
func Lookup(name string) (Variant, error) {
	v, ok := Get(name)
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// All returns all registered variants sorted by name.
func All() []Variant {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Variant, 0, len(registry))
	for _, v := range registry {
		result = append(result, v)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Names returns all registered variant names, sorted.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, v := range all {
		names[i] = v.Name
	}
	return names
}

// VariantCount returns the number of registered variants.
func VariantCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered variants.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Variant)
}
