package engines

import (
	"fmt"
	"sort"

	"github.com/colmak/collsim/internal/collide"
)

var registry = map[string]func() collide.Engine{
	"sweep":    func() collide.Engine { return NewSweep() },
	"granular": func() collide.Engine { return NewGranular() },
}

// Get returns a fresh engine by name.
func Get(name string) (collide.Engine, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("engines: unknown engine: %s", name)
	}
	return fn(), nil
}

// List returns the registered engine names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AutoSelect returns the best available engine: the full-capability
// sweep engine when present, otherwise the first available one.
func AutoSelect() collide.Engine {
	if s := NewSweep(); s.Available() {
		return s
	}
	for _, name := range List() {
		eng, _ := Get(name)
		if eng != nil && eng.Available() {
			return eng
		}
	}
	return NewSweep()
}
