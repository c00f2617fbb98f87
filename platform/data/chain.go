package data

// Chain combines several getters into one. Getters are consulted in order and
// the first one that knows the name wins.
type Chain []Getter

// NewChain creates a Chain, skipping nil getters.
func NewChain(getters ...Getter) Chain {
	c := make(Chain, 0, len(getters))
	for _, g := range getters {
		if g != nil {
			c = append(c, g)
		}
	}
	return c
}

// Get implements Getter.
func (c Chain) Get(name string) (string, bool) {
	for _, g := range c {
		if v, ok := g.Get(name); ok {
			return v, true
		}
	}
	return "", false
}
