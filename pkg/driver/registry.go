package driver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// OpenFunc constructs a driver from a provider-specific path or DSN.
type OpenFunc func(path string) (Driver, error)

// Provider registry
var (
	providersMu sync.RWMutex
	providers   = make(map[string]OpenFunc)
)

// Register registers a driver provider under a name. Called by provider
// implementations in their init() functions; later registrations under the
// same name win.
func Register(name string, open OpenFunc) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[strings.ToLower(name)] = open
}

// Open constructs a driver by provider name.
func Open(name, path string) (Driver, error) {
	providersMu.RLock()
	open, ok := providers[strings.ToLower(name)]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown driver provider %q (registered: %s)",
			name, strings.Join(List(), ", "))
	}
	return open(path)
}

// List returns all registered provider names (sorted).
func List() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
