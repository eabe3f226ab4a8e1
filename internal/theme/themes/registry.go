package themes

import (
	"fmt"

	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// Theme names.
const (
	NameSimple  = "simple"
	NameRunner  = "runner"
	NameRandom  = "random"
	NameGradius = "gradius"
)

var factories = map[string]theme.Factory{
	NameSimple:  NewSimple,
	NameRunner:  NewRunner,
	NameRandom:  NewRandom,
	NameGradius: NewGradius,
}

// Names returns every known theme name in display order.
func Names() []string {
	return []string{NameRandom, NameRunner, NameSimple, NameGradius}
}

// Lookup resolves configured theme names to factories, keeping their order.
func Lookup(names []string) ([]theme.Factory, error) {
	out := make([]theme.Factory, 0, len(names))
	for _, name := range names {
		f, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", theme.ErrUnknownTheme, name)
		}
		out = append(out, f)
	}
	return out, nil
}
