package instance

// ParentIndex maps node identities to parents. It is derived from a tree and
// must be rebuilt whenever that tree is walked for a new export.
type ParentIndex struct {
	parents map[uint32]*Node
}

// NewParentIndex indexes every node below root.
func NewParentIndex(root *Node) *ParentIndex {
	idx := &ParentIndex{parents: make(map[uint32]*Node)}
	idx.add(root)
	return idx
}

func (p *ParentIndex) add(n *Node) {
	for _, c := range n.Children {
		p.parents[c.ID] = n
		p.add(c)
	}
}

// Parent returns the parent of n, or false for the root.
func (p *ParentIndex) Parent(n *Node) (*Node, bool) {
	parent, ok := p.parents[n.ID]
	return parent, ok
}

// Chain returns n and its ancestors ordered from the outermost non-root
// ancestor down to n. The root is never included.
func (p *ParentIndex) Chain(n *Node) []*Node {
	var chain []*Node
	for cur := n; cur != nil && !cur.IsRoot(); {
		chain = append(chain, cur)
		parent, ok := p.Parent(cur)
		if !ok {
			break
		}
		cur = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// TopLevel returns the outermost non-root ancestor of n (n itself when it
// sits directly under the root).
func (p *ParentIndex) TopLevel(n *Node) *Node {
	chain := p.Chain(n)
	if len(chain) == 0 {
		return n
	}
	return chain[0]
}
