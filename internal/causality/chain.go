package causality

// Chain is the causal ancestry of a message, ordered from the queried
// message to its root.
type Chain struct {
	// Messages holds the walk, starting with the queried message.
	Messages []Message

	// Partial is set when the walk stopped at a parent id that is not in
	// the message table. MissingParent holds that id.
	Partial       bool
	MissingParent int64

	// Cycle is set when the walk met an id it had already visited.
	Cycle bool
}

// Complete reports whether the walk reached a root message.
// The zero Chain is not complete.
func (c Chain) Complete() bool {
	return len(c.Messages) > 0 && !c.Partial && !c.Cycle
}

// Root returns the last message of the chain.
//
// Returns:
//   - the root message and true for a complete chain
//   - the furthest message reached and true for a partial or cyclic chain
//   - the zero Message and false for the zero Chain, which is what ChainOf
//     returns alongside a *LookupError
func (c Chain) Root() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// IDs returns the message ids of the chain in order.
func (c Chain) IDs() []int64 {
	ids := make([]int64, len(c.Messages))
	for i, m := range c.Messages {
		ids[i] = m.ID
	}
	return ids
}

// ChainOf walks parent links from message id up to its root.
//
// The walk stops when:
//   - a message has no parent (root reached, included in the chain)
//   - a parent id is missing from the table (Chain.Partial)
//   - a message id repeats (Chain.Cycle)
//
// A message whose parent is its own id is a one-step cycle.
//
// Returns:
//   - the chain and nil, including partial and cyclic chains
//   - the zero Chain and a *LookupError (wrapping ErrNotFound) if id itself
//     is unknown
//
// Performance: one map lookup per step, O(chain length) with a visited set.
//
// Thread Safety: safe for concurrent calls. A Graph is never mutated after
// Finish.
//
// Example:
//
//	c, err := g.ChainOf(3)
//	if errors.Is(err, causality.ErrNotFound) { ... }
//	fmt.Println(c.IDs()) // [3 2 1]
func (g *Graph) ChainOf(id int64) (Chain, error) {
	m, ok := g.messages[id]
	if !ok {
		return Chain{}, &LookupError{ID: id}
	}

	c := Chain{MissingParent: None}
	visited := make(map[int64]struct{})
	for {
		visited[m.ID] = struct{}{}
		c.Messages = append(c.Messages, m)

		if m.IsRoot() {
			return c, nil
		}
		if _, seen := visited[m.Parent]; seen {
			c.Cycle = true
			return c, nil
		}
		parent, ok := g.messages[m.Parent]
		if !ok {
			c.Partial = true
			c.MissingParent = m.Parent
			return c, nil
		}
		m = parent
	}
}

// Descendants returns every message whose chain passes through id,
// excluding id itself, in stream order.
func (g *Graph) Descendants(id int64) []Message {
	var out []Message
	for _, m := range g.Messages() {
		if m.ID == id {
			continue
		}
		c, err := g.ChainOf(m.ID)
		if err != nil {
			continue
		}
		for _, a := range c.Messages[1:] {
			if a.ID == id {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
