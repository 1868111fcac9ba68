package noc

import "github.com/gonocq/nocq/internal/cpengine"

// Truth is the minimal query surface FindBadCycle needs: whether a
// vertex or edge variable currently holds true or false (an unfixed
// variable answers false to both). cpengine.Store satisfies it
// directly during native search; internal/satbackend wraps a solved
// SAT model in an adapter to reuse the same walk during its
// counterexample-guided refinement loop.
type Truth interface {
	IsTrue(v *cpengine.BoolVar) bool
	IsFalse(v *cpengine.BoolVar) bool
}

// NOCPropagator is the graph-aware custom propagator named by the
// encoding: on every wake-up it walks the subgraph of edges that are
// not fixed false looking for a cycle, closing a path either on an
// already-committed edge or on a still-unfixed candidate one step past
// the committed prefix. Whenever it finds a cycle that would be a win
// for the opponent it learns a no-good clause forbidding that exact
// combination of edges and forces the closing edge false — a genuine
// deduction if that edge was unfixed, or a conflict the search driver
// turns into a backtrack if the edge already held true.
type NOCPropagator struct {
	enc    *Encoding
	walker cycleWalker
}

// Propagate performs one full DFS sweep of the not-fixed-false
// subgraph. It is deliberately a full rescan rather than an
// incremental walk seeded from the newest fixed edge: the games this
// solver targets are small enough that the rescan cost is dominated by
// the search tree itself, and a full rescan can never miss a cycle
// that an incremental walk's bookkeeping might.
func (p *NOCPropagator) Propagate(s *cpengine.Store) error {
	loopEdges, found := p.walker.findBadCycle(p.enc, s)
	if !found {
		return nil
	}
	clause := make([]cpengine.Lit, len(loopEdges))
	for i, e := range loopEdges {
		clause[i] = cpengine.Neg(p.enc.E[e])
	}
	s.Learn(clause)
	return s.SetFalse(p.enc.E[loopEdges[len(loopEdges)-1]], clause)
}

// cycleWalker holds the scratch slices of one DFS sweep so repeated
// calls to Propagate don't reallocate.
type cycleWalker struct {
	visiting []int8 // 0 = unvisited, 1 = on current path, 2 = excluded (vertex not in the subgame)
	pathV    []int
	pathE    []int
}

const (
	unvisited int8 = iota
	onPath
	done
)

// findBadCycle walks the encoding's not-fixed-false edges looking for
// a cycle that would be a win for the opponent of enc.PlayerSAT. It
// returns the edge ids of the cycle (in path order, closing back to
// its first vertex) and true if one was found.
func (w *cycleWalker) findBadCycle(enc *Encoding, truth Truth) ([]int, bool) {
	g := enc.G
	n := g.NVertices()
	if cap(w.visiting) < n {
		w.visiting = make([]int8, n)
	} else {
		w.visiting = w.visiting[:n]
		for i := range w.visiting {
			w.visiting[i] = unvisited
		}
	}
	w.pathV = w.pathV[:0]
	w.pathE = w.pathE[:0]

	for v := 0; v < n; v++ {
		if w.visiting[v] != unvisited {
			continue
		}
		if !truth.IsTrue(enc.V[v]) {
			w.visiting[v] = done
			continue
		}
		if edges, found := w.walk(enc, truth, v); found {
			return edges, true
		}
	}
	return nil, false
}

// walk explores the DFS over edges that are not fixed false: both
// fixed-true edges and still-unfixed candidates are followed one step,
// since a candidate edge closing a cycle back into the current path is
// itself something the propagator can act on (forcing it false as a
// deduction, or reporting a conflict if it already held true).
// Extension past a freshly-discovered vertex, however, only continues
// along a definedEdge (one already fixed true): a vertex reached by a
// still-unfixed edge is checked for closing the current path and
// nothing more, because cycle closure must be provable on the
// committed skeleton for the no-good to be sound.
func (w *cycleWalker) walk(enc *Encoding, truth Truth, v int) ([]int, bool) {
	w.visiting[v] = onPath
	w.pathV = append(w.pathV, v)

	for _, e := range enc.G.Outs[v] {
		if truth.IsFalse(enc.E[e]) {
			continue
		}
		target := enc.G.Targets[e]
		w.pathE = append(w.pathE, e)
		switch w.visiting[target] {
		case onPath:
			if edges, bad := w.checkCycle(enc, target); bad {
				return edges, true
			}
		case unvisited:
			if !truth.IsTrue(enc.V[target]) {
				w.visiting[target] = done
			} else if truth.IsTrue(enc.E[e]) {
				if edges, found := w.walk(enc, truth, target); found {
					return edges, true
				}
			}
			// else: e is only a candidate into a genuinely new vertex;
			// leave target unvisited rather than extending into it, so a
			// later root in findBadCycle's outer loop can still explore
			// it properly once/if its own in-edge becomes defined.
		}
		w.pathE = w.pathE[:len(w.pathE)-1]
	}

	w.pathV = w.pathV[:len(w.pathV)-1]
	// v leaves the path unvisited again so that a later path can re-enter
	// it: a cycle through v reached along a different prefix is a
	// different loop and must be checked too.
	w.visiting[v] = unvisited
	return nil, false
}

// checkCycle evaluates the loop pathV[idx:]/pathE[idx:] (where
// pathV[idx] == closesAt) against the opponent's winning-condition
// set: if the loop is a win for the opponent, it is a no-good.
func (w *cycleWalker) checkCycle(enc *Encoding, closesAt int) ([]int, bool) {
	idx := -1
	for i, v := range w.pathV {
		if v == closesAt {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}
	opponentConds := enc.Conditions.Flipped()
	if !opponentConds.GoodFor(w.pathV, w.pathE, idx) {
		return nil, false
	}
	return append([]int(nil), w.pathE[idx:]...), true
}
