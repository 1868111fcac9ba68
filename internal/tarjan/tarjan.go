// Package tarjan computes strongly connected components over a game
// graph, either directly or restricted to the active vertices/edges of
// a game.View. The NOC propagator's soundness argument rests on
// SCC-level reasoning, so this is specified alongside the solver even
// though it never learns a clause itself.
package tarjan

import "github.com/gonocq/nocq/internal/game"

// SCC is a Tarjan strongly-connected-components computation. It is a
// total function over finite graphs: every vertex belongs to exactly
// one SCC, in post-order of discovery.
type SCC struct {
	g       *game.Game
	view    *game.View
	indices []int
	lowlink []int
	onstack []bool
	stack   []int
	index   int
	sccs    [][]int
}

// New prepares an SCC computation over g, optionally restricted to an
// active view. A nil view computes over the whole graph.
func New(g *game.Game, view *game.View) *SCC {
	n := g.NVertices()
	s := &SCC{
		g:       g,
		view:    view,
		indices: make([]int, n),
		lowlink: make([]int, n),
		onstack: make([]bool, n),
	}
	for i := range s.indices {
		s.indices[i] = -1
		s.lowlink[i] = -1
	}
	return s
}

// Solve runs Tarjan's algorithm and returns the SCCs in the natural
// post-order of discovery: no edge runs from a later SCC in this order
// back to an earlier one, i.e. the order is reverse topological.
func (s *SCC) Solve() [][]int {
	if s.view != nil {
		for _, v := range s.view.Vertices() {
			if s.indices[v] == -1 {
				s.search(v)
			}
		}
		return s.sccs
	}
	for v := 0; v < s.g.NVertices(); v++ {
		if s.indices[v] == -1 {
			s.search(v)
		}
	}
	return s.sccs
}

func (s *SCC) outs(v int) []int {
	if s.view != nil {
		return s.view.Outs(v)
	}
	return s.g.Outs[v]
}

// search is the recursive DFS visit; stack depth is bounded by
// g.NVertices().
func (s *SCC) search(v int) {
	s.indices[v] = s.index
	s.lowlink[v] = s.index
	s.index++
	s.stack = append(s.stack, v)
	s.onstack[v] = true

	for _, e := range s.outs(v) {
		w := s.g.Targets[e]
		if s.view != nil && !s.view.IsVertexActive(w) {
			continue
		}
		if s.indices[w] == -1 {
			s.search(w)
			if s.lowlink[w] < s.lowlink[v] {
				s.lowlink[v] = s.lowlink[w]
			}
		} else if s.onstack[w] {
			if s.lowlink[w] < s.lowlink[v] {
				s.lowlink[v] = s.lowlink[w]
			}
		}
	}

	if s.lowlink[v] == s.indices[v] {
		var scc []int
		for {
			w := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.onstack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		s.sccs = append(s.sccs, scc)
	}
}

// Solve is a convenience wrapper computing SCCs over the whole graph.
func Solve(g *game.Game) [][]int {
	return New(g, nil).Solve()
}

// SolveView is a convenience wrapper computing SCCs restricted to the
// active vertices and edges of view.
func SolveView(g *game.Game, view *game.View) [][]int {
	return New(g, view).Solve()
}
