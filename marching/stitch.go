package marching

import (
	"slices"
	"sort"
)

// edgeKey identifies an undirected mesh edge, lo < hi.
type edgeKey struct {
	lo, hi int
}

func keyOf(e Edge) edgeKey {
	if e.A < e.B {
		return edgeKey{lo: e.A, hi: e.B}
	}
	return edgeKey{lo: e.B, hi: e.A}
}

func (k edgeKey) less(o edgeKey) bool {
	return k.lo < o.lo || (k.lo == o.lo && k.hi < o.hi)
}

// edgeRef records that segment seg crosses edge key.
type edgeRef struct {
	key edgeKey
	seg int
}

// indexEdges builds the adjacency list sorted by edge key, then segment
// (triangle) order.
func (t *Triangles) indexEdges() {
	t.refs = t.refs[:0]
	for s := range t.segs {
		for _, e := range t.segs[s].edges {
			t.refs = append(t.refs, edgeRef{key: keyOf(e), seg: s})
		}
	}
	slices.SortFunc(t.refs, func(a, b edgeRef) int {
		switch {
		case a.key.less(b.key):
			return -1
		case b.key.less(a.key):
			return 1
		}
		return a.seg - b.seg
	})
}

// next returns the first unvisited segment crossing key, or -1.
func (t *Triangles) next(key edgeKey) int {
	i := sort.Search(len(t.refs), func(i int) bool { return !t.refs[i].key.less(key) })
	for ; i < len(t.refs) && t.refs[i].key == key; i++ {
		if s := t.refs[i].seg; !t.visited.has(s) {
			return s
		}
	}
	return -1
}

type crossing struct {
	edge Edge
	frac float64
}

// stitch chains segments through shared edges. Each unvisited segment seeds a
// polyline that is chased forward from its exit edge, then backward from its
// entry edge.
func (t *Triangles) stitch() []Isoline {
	t.visited.reset(len(t.segs))
	var lines []Isoline
	var fwd, bwd []crossing
	for s := range t.segs {
		if t.visited.has(s) {
			continue
		}
		t.visited.set(s)
		seed := t.segs[s]
		startKey := keyOf(seed.edges[0])
		fwd = append(fwd[:0], crossing{seed.edges[1], seed.fracs[1]})
		bwd = append(bwd[:0], crossing{seed.edges[0], seed.fracs[0]})
		closed := false
		// At most two passes: forward, then backward.
		for dir := 0; dir < 2 && !closed; dir++ {
			tip := &fwd
			if dir == 1 {
				tip = &bwd
			}
			for {
				key := keyOf((*tip)[len(*tip)-1].edge)
				if dir == 0 && key == startKey {
					closed = true
					break
				}
				n := t.next(key)
				if n < 0 {
					break
				}
				t.visited.set(n)
				seg := t.segs[n]
				out := 1
				if keyOf(seg.edges[1]) == key {
					out = 0
				}
				*tip = append(*tip, crossing{seg.edges[out], seg.fracs[out]})
			}
		}
		lines = append(lines, assemble(bwd, fwd, closed))
	}
	return lines
}

// assemble joins the reversed backward chain with the forward chain. A closed
// line ends on its start edge already, so the start crossing is repeated.
func assemble(bwd, fwd []crossing, closed bool) Isoline {
	n := len(bwd) + len(fwd)
	line := Isoline{
		Edges:     make([]Edge, 0, n),
		Fractions: make([]float64, 0, n),
		Closed:    closed,
	}
	for i := len(bwd) - 1; i >= 0; i-- {
		line.Edges = append(line.Edges, bwd[i].edge)
		line.Fractions = append(line.Fractions, bwd[i].frac)
	}
	last := len(fwd)
	if closed {
		// fwd ends at a crossing on the start edge; emit the exact start point.
		last--
	}
	for _, c := range fwd[:last] {
		line.Edges = append(line.Edges, c.edge)
		line.Fractions = append(line.Fractions, c.frac)
	}
	if closed {
		line.Edges = append(line.Edges, bwd[0].edge)
		line.Fractions = append(line.Fractions, bwd[0].frac)
	}
	return line
}

type bitset []uint64

func (b *bitset) reset(n int) {
	words := (n + 63) / 64
	if cap(*b) < words {
		*b = make(bitset, words)
		return
	}
	*b = (*b)[:words]
	clear(*b)
}

func (b bitset) has(i int) bool { return b[i/64]&(1<<(i%64)) != 0 }
func (b bitset) set(i int)      { b[i/64] |= 1 << (i % 64) }
