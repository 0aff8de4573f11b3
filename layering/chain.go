// Package layering walks parent-linked layers into an ordered chain and
// resolves values against it, strongest layer first.
package layering

// Chain describes the ordered layering sequence from strongest to weakest.
type Chain[L comparable] struct {
	ordered []L
}

// Walk builds a chain starting at start and following parent until it
// yields the zero value. A layer reached twice ends the walk, so a
// misconfigured parent link cannot loop forever.
func Walk[L comparable](start L, parent func(L) L) Chain[L] {
	var zero L
	if start == zero {
		return Chain[L]{}
	}
	ordered := []L{start}
	seen := map[L]struct{}{start: {}}
	for current := parent(start); current != zero; current = parent(current) {
		if _, ok := seen[current]; ok {
			break
		}
		seen[current] = struct{}{}
		ordered = append(ordered, current)
	}
	return Chain[L]{ordered: ordered}
}

// Ordered returns the layering sequence from strongest (index 0) to weakest.
func (c Chain[L]) Ordered() []L {
	out := make([]L, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of layers.
func (c Chain[L]) Len() int {
	return len(c.ordered)
}

// Strongest returns the first layer in the chain (zero value if empty).
func (c Chain[L]) Strongest() L {
	var zero L
	if len(c.ordered) == 0 {
		return zero
	}
	return c.ordered[0]
}

// Weakest returns the final layer in the chain (zero value if empty).
func (c Chain[L]) Weakest() L {
	var zero L
	if len(c.ordered) == 0 {
		return zero
	}
	return c.ordered[len(c.ordered)-1]
}

// Find returns the first value lookup reports as present, scanning from the
// strongest layer, along with the index of the layer that held it. The
// index is -1 when no layer holds a value.
func Find[L comparable, V any](c Chain[L], lookup func(L) (V, bool)) (V, int, bool) {
	for i, layer := range c.ordered {
		if value, ok := lookup(layer); ok {
			return value, i, true
		}
	}
	var zero V
	return zero, -1, false
}
