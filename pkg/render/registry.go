package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownRenderer is wrapped by Get when no renderer carries the name.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry maps output format names ("json", "text", "html") to renderers.
// Names are matched case-insensitively.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Renderer{}}
}

// NewDefaultRegistry returns a registry holding the JSON and text renderers.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(NewJSON())
	reg.MustRegister(NewText())
	return reg
}

func normaliseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds renderer under its Name(). A name can be registered once.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	key := normaliseName(renderer.Name())
	if key == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[key]; taken {
		return fmt.Errorf("render: renderer %q already registered", key)
	}
	r.byName[key] = renderer
	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	key := normaliseName(name)
	r.mu.RLock()
	renderer, ok := r.byName[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownRenderer, name, strings.Join(r.List(), ", "))
	}
	return renderer, nil
}

func (r *Registry) MustGet(name string) Renderer {
	renderer, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return renderer
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[normaliseName(name)]
	return ok
}
