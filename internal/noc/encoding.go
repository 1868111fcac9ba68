// Package noc turns a game, a target player and a winning-condition set
// into a boolean constraint-satisfaction problem over a cpengine.Store:
// satisfiable iff that player has a winning strategy from the game's
// initial vertex. The encoding follows the "subgame plus strategy"
// shape: V[v] means vertex v survives into the induced subgame, E[e]
// means edge e is part of the strategy, and the NOCPropagator forbids
// every committed cycle that would hand the opponent a win.
package noc

import (
	"fmt"

	"github.com/gonocq/nocq/internal/cpengine"
	"github.com/gonocq/nocq/internal/game"
	"github.com/gonocq/nocq/internal/wincond"
)

// Encoding holds one built CP model: the store, the per-vertex and
// per-edge variables, and the game/condition data the propagator needs
// to re-check committed cycles.
type Encoding struct {
	Store      *cpengine.Store
	G          *game.Game
	PlayerSAT  game.Player
	Conditions wincond.Set
	V          []*cpengine.BoolVar // indexed by vertex id
	E          []*cpengine.BoolVar // indexed by edge id
}

// Build constructs the CP encoding of g for playerSAT under conds (a
// condition set already built for playerSAT; see wincond.Set).
func Build(g *game.Game, playerSAT game.Player, conds wincond.Set) *Encoding {
	store := cpengine.NewStore()
	enc := &Encoding{
		Store:      store,
		G:          g,
		PlayerSAT:  playerSAT,
		Conditions: conds,
		V:          make([]*cpengine.BoolVar, g.NVertices()),
		E:          make([]*cpengine.BoolVar, g.NEdges()),
	}
	for v := range enc.V {
		enc.V[v] = store.NewVar()
	}
	for e := range enc.E {
		enc.E[e] = store.NewVar()
	}

	store.AddClause(cpengine.Pos(enc.V[g.Init]))

	for e := 0; e < g.NEdges(); e++ {
		store.AddClause(cpengine.Neg(enc.E[e]), cpengine.Pos(enc.V[g.Sources[e]]))
		store.AddClause(cpengine.Neg(enc.E[e]), cpengine.Pos(enc.V[g.Targets[e]]))
	}

	for v := 0; v < g.NVertices(); v++ {
		outs := g.Outs[v]
		if g.Owners[v] == playerSAT {
			enc.encodePlayerVertex(v, outs)
		} else {
			enc.encodeOpponentVertex(v, outs)
		}
	}

	enc.Store.AddConstraint(&NOCPropagator{enc: enc})
	return enc
}

// encodePlayerVertex requires exactly one outgoing edge chosen when the
// vertex survives, and forbids survival for a vertex with no outgoing
// edges at all (the player loses a play that reaches a dead end it
// owns).
func (enc *Encoding) encodePlayerVertex(v int, outs []int) {
	if len(outs) == 0 {
		enc.Store.AddClause(cpengine.Neg(enc.V[v]))
		return
	}
	lits := make([]cpengine.Lit, len(outs)+1)
	lits[0] = cpengine.Neg(enc.V[v])
	for i, e := range outs {
		lits[i+1] = cpengine.Pos(enc.E[e])
	}
	enc.Store.AddClause(lits...) // V[v] -> at least one out-edge chosen

	edgeVars := make([]*cpengine.BoolVar, len(outs))
	for i, e := range outs {
		edgeVars[i] = enc.E[e]
	}
	atMostOneSequential(enc.Store, edgeVars, fmt.Sprintf("aux_v%d", v))
}

// encodeOpponentVertex forces every out-edge of a surviving opponent
// vertex to be part of the subgame, unconditionally: the opponent is
// not restricted to one choice, so NOC must consider all of its edges
// as candidate continuations of a play. V[v] -> E[e] alone is enough;
// E[e] in turn forces V[target] via the reachability clauses already
// posted in Build, so the chain V[v] -> E[e] -> V[target] surfaces
// every edge the opponent could actually take. Conditioning this
// clause on V[target] as well would let the solver hide a real
// opponent continuation by simply excluding its target from the
// subgame, with nothing else forcing that exclusion.
func (enc *Encoding) encodeOpponentVertex(v int, outs []int) {
	for _, e := range outs {
		enc.Store.AddClause(cpengine.Neg(enc.V[v]), cpengine.Pos(enc.E[e]))
	}
}

// atMostOneSequential posts the sequential-counter at-most-one
// encoding over vars: one auxiliary variable per prefix, with three
// clauses tying consecutive auxiliaries and variables together. It
// scales linearly in the number of variables, unlike the quadratic
// pairwise encoding, and is the encoding named for exactly-one
// constraints over vertex out-degree. label is unused by the encoding
// itself; it exists so call sites can name the constraint for
// debugging without the store needing to track it.
func atMostOneSequential(store *cpengine.Store, vars []*cpengine.BoolVar, label string) {
	if len(vars) <= 1 {
		return
	}
	aux := store.NewVars(len(vars) - 1)
	store.AddClause(cpengine.Neg(vars[0]), cpengine.Pos(aux[0]))
	for i := 1; i < len(vars)-1; i++ {
		store.AddClause(cpengine.Neg(vars[i]), cpengine.Pos(aux[i]))
		store.AddClause(cpengine.Neg(aux[i-1]), cpengine.Pos(aux[i]))
		store.AddClause(cpengine.Neg(vars[i]), cpengine.Neg(aux[i-1]))
	}
	store.AddClause(cpengine.Neg(vars[len(vars)-1]), cpengine.Neg(aux[len(aux)-1]))
}

// DecisionVars returns the variables to branch over: all vertex
// variables by index, then all edge variables by index.
func (enc *Encoding) DecisionVars() []*cpengine.BoolVar {
	out := make([]*cpengine.BoolVar, 0, len(enc.V)+len(enc.E))
	out = append(out, enc.V...)
	out = append(out, enc.E...)
	return out
}

// ActiveVertices and ActiveEdges extract the witness subgame from a
// satisfying assignment.
func (enc *Encoding) ActiveVertices() []int {
	var out []int
	for v, bv := range enc.V {
		if enc.Store.IsTrue(bv) {
			out = append(out, v)
		}
	}
	return out
}

// FindBadCycle exposes the NOC propagator's cycle walk against an
// arbitrary Truth source, used by internal/satbackend to re-run the
// same check against a model returned by an external SAT solver.
func (enc *Encoding) FindBadCycle(truth Truth) ([]int, bool) {
	var w cycleWalker
	return w.findBadCycle(enc, truth)
}

func (enc *Encoding) ActiveEdges() []int {
	var out []int
	for e, bv := range enc.E {
		if enc.Store.IsTrue(bv) {
			out = append(out, e)
		}
	}
	return out
}
