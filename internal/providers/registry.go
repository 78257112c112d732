package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/metricdocs/metricdocs/internal/services/auth"
	"github.com/metricdocs/metricdocs/internal/util"
)

// DefaultBackend is the backend commands use unless told otherwise.
const DefaultBackend = "gcm"

type Factory func(ctx context.Context, store auth.Store) (Provider, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

func Register(name string, factory Factory) {
	normalizedName := util.NormalizeKey(name)
	if normalizedName == "" {
		panic("providers: empty backend name")
	}
	if factory == nil {
		panic("providers: nil factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[normalizedName]; exists {
		panic(fmt.Sprintf("providers: backend %q already registered", name))
	}

	registry[normalizedName] = factory
}

func Get(ctx context.Context, name string, store auth.Store) (Provider, error) {
	normalizedName := util.NormalizeKey(name)
	mu.RLock()
	factory, ok := registry[normalizedName]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("providers: unknown backend %q", name)
	}

	provider, err := factory(ctx, store)
	if err != nil {
		return nil, err
	}

	return provider, nil
}

// Reset clears the backend registry. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Factory{}
}

func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	return names
}
