package rope

import (
	"iter"

	"github.com/san-kum/ropecoil/internal/physics"
)

// Handle is a stable reference to a chain node. It stays valid until the
// node is removed or the chain is cleared.
type Handle int32

const Nil Handle = -1

type node struct {
	seg  Segment
	prev Handle
	next Handle
	link *physics.Constraint
	live bool
}

// Chain is an ordered sequence of segments stored in an arena with a free
// list. Insertion next to a known handle is O(1); positional lookup walks
// from the nearer end.
type Chain struct {
	nodes []node
	free  []Handle
	head  Handle
	tail  Handle
	n     int
}

func NewChain(capacity int) *Chain {
	return &Chain{
		nodes: make([]node, 0, capacity),
		head:  Nil,
		tail:  Nil,
	}
}

func (c *Chain) Len() int     { return c.n }
func (c *Chain) Head() Handle { return c.head }
func (c *Chain) Tail() Handle { return c.tail }

func (c *Chain) alloc(seg Segment) Handle {
	var h Handle
	if k := len(c.free); k > 0 {
		h = c.free[k-1]
		c.free = c.free[:k-1]
		c.nodes[h] = node{}
	} else {
		h = Handle(len(c.nodes))
		c.nodes = append(c.nodes, node{})
	}
	c.nodes[h] = node{seg: seg, prev: Nil, next: Nil, live: true}
	c.n++
	return h
}

// Append adds seg at the tail.
func (c *Chain) Append(seg Segment) Handle {
	h := c.alloc(seg)
	if c.tail == Nil {
		c.head, c.tail = h, h
		return h
	}
	c.nodes[h].prev = c.tail
	c.nodes[c.tail].next = h
	c.tail = h
	return h
}

// InsertAfter splices seg between at and its successor.
func (c *Chain) InsertAfter(at Handle, seg Segment) Handle {
	if !c.Valid(at) {
		return Nil
	}
	h := c.alloc(seg)
	next := c.nodes[at].next
	c.nodes[h].prev = at
	c.nodes[h].next = next
	c.nodes[at].next = h
	if next == Nil {
		c.tail = h
	} else {
		c.nodes[next].prev = h
	}
	return h
}

// Remove unlinks h and returns its node to the free list. The caller owns
// any constraint stored on it.
func (c *Chain) Remove(h Handle) {
	if !c.Valid(h) {
		return
	}
	nd := c.nodes[h]
	if nd.prev == Nil {
		c.head = nd.next
	} else {
		c.nodes[nd.prev].next = nd.next
	}
	if nd.next == Nil {
		c.tail = nd.prev
	} else {
		c.nodes[nd.next].prev = nd.prev
	}
	c.nodes[h] = node{prev: Nil, next: Nil}
	c.free = append(c.free, h)
	c.n--
}

// Clear drops every node. Handles from before the call are invalid.
func (c *Chain) Clear() {
	c.nodes = c.nodes[:0]
	c.free = c.free[:0]
	c.head, c.tail = Nil, Nil
	c.n = 0
}

func (c *Chain) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(c.nodes) && c.nodes[h].live
}

func (c *Chain) Next(h Handle) Handle { return c.nodes[h].next }
func (c *Chain) Prev(h Handle) Handle { return c.nodes[h].prev }

func (c *Chain) Segment(h Handle) *Segment { return &c.nodes[h].seg }

// Link is the constraint joining h to its successor, nil if none.
func (c *Chain) Link(h Handle) *physics.Constraint { return c.nodes[h].link }

func (c *Chain) SetLink(h Handle, link *physics.Constraint) { c.nodes[h].link = link }

// At returns the handle at position i, or Nil when out of range.
func (c *Chain) At(i int) Handle {
	if i < 0 || i >= c.n {
		return Nil
	}
	if i < c.n/2 {
		h := c.head
		for ; i > 0; i-- {
			h = c.nodes[h].next
		}
		return h
	}
	h := c.tail
	for k := c.n - 1; k > i; k-- {
		h = c.nodes[h].prev
	}
	return h
}

// All yields position and segment in chain order.
func (c *Chain) All() iter.Seq2[int, *Segment] {
	return func(yield func(int, *Segment) bool) {
		i := 0
		for h := c.head; h != Nil; h = c.nodes[h].next {
			if !yield(i, &c.nodes[h].seg) {
				return
			}
			i++
		}
	}
}

// StaticCount counts segments out of the solver.
func (c *Chain) StaticCount() int {
	n := 0
	for _, s := range c.All() {
		if s.Static() {
			n++
		}
	}
	return n
}
