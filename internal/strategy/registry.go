package strategy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/qaco/internal/engine"
)

var registry = map[string]func() engine.Strategy{
	"uniform": func() engine.Strategy { return NewUniform(nil) },
}

// Lookup returns a new instance of the named strategy.
func Lookup(name string) (engine.Strategy, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
