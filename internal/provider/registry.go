package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages all available providers. Iteration order is by priority,
// highest first, and defines the order in which results are merged.
type Registry struct {
	mu            sync.RWMutex
	providers     map[string]Source
	priorities    map[string]int
	enabledStatus map[string]bool
	configs       map[string]map[string]interface{}
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers:     make(map[string]Source),
		priorities:    make(map[string]int),
		enabledStatus: make(map[string]bool),
		configs:       make(map[string]map[string]interface{}),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, source Source, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	if err := ValidateCapabilities(source.Capabilities()); err != nil {
		return fmt.Errorf("invalid provider capabilities for %s: %w", name, err)
	}

	r.providers[name] = source
	r.priorities[name] = priority
	r.enabledStatus[name] = false // Disabled by default

	return nil
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.providers[name]
	return source, exists
}

// List returns all registered provider names, highest priority first
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNamesLocked()
}

// Enabled returns the enabled providers, highest priority first
func (r *Registry) Enabled() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sources []Source
	for _, name := range r.sortedNamesLocked() {
		if r.enabledStatus[name] {
			sources = append(sources, r.providers[name])
		}
	}
	return sources
}

// IsEnabled reports whether the named provider is enabled
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.enabledStatus[name]
}

// Enable enables a provider
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	source, exists := r.providers[name]
	if !exists {
		return fmt.Errorf("provider %s not found", name)
	}

	if source.Capabilities().RequiresAuth {
		if config, hasConfig := r.configs[name]; !hasConfig || len(config) == 0 {
			return fmt.Errorf("provider %s requires configuration", name)
		}
	}

	r.enabledStatus[name] = true
	return nil
}

// Configure sets configuration for a provider
func (r *Registry) Configure(name string, config map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	source, exists := r.providers[name]
	if !exists {
		return fmt.Errorf("provider %s not found", name)
	}

	if err := source.Configure(config); err != nil {
		return fmt.Errorf("failed to configure provider %s: %w", name, err)
	}

	r.configs[name] = config

	return nil
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		pi, pj := r.priorities[names[i]], r.priorities[names[j]]
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})

	return names
}
