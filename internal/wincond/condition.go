// Package wincond provides the quantitative winning-condition family
// evaluated over a discovered cycle: parity, energy, and mean-payoff.
// Each condition is a capability object bound to a Game and a target
// player; its one operation, Satisfy, decides whether the loop formed
// by the suffix of a path is good for that player.
package wincond

import "github.com/gonocq/nocq/internal/game"

// Condition is a closed, statically-known tagged variant rather than an
// open interface hierarchy: the three kinds below are the only ones
// the solver ever plugs in, so a single dispatch point (Satisfy) is
// enough and avoids a virtual-table feel for something this small.
//
// Satisfy inspects only pathV[cycleIndex:] and pathE[cycleIndex:],
// treating that suffix as the infinite cycle obtained by looping it
// back to pathV[cycleIndex]. It is pure and total whenever
// cycleIndex < len(pathV), and answers for the condition's own
// PlayerSAT: a Parity built for ODD answers "is this loop good for
// ODD", not for EVEN.
type Condition interface {
	Satisfy(pathV, pathE []int, cycleIndex int) bool
	Player() game.Player
	Flipped() Condition
}

// Parity satisfies EVEN iff the best priority (under the game's reward
// convention) among the loop's vertices is even, and satisfies ODD iff
// it is odd.
type Parity struct {
	G         *game.Game
	PlayerSAT game.Player
}

func (p Parity) Player() game.Player { return p.PlayerSAT }

// Flipped returns the same condition judged for the opposite player.
func (p Parity) Flipped() Condition { p.PlayerSAT = p.PlayerSAT.Opponent(); return p }

func (p Parity) Satisfy(pathV, pathE []int, cycleIndex int) bool {
	loop := pathV[cycleIndex:]
	best := p.G.Priorities[loop[0]]
	for _, v := range loop[1:] {
		if p.G.ComparePriorities(p.G.Priorities[v], best, game.Better) {
			best = p.G.Priorities[v]
		}
	}
	even := best%2 == 0
	if p.PlayerSAT == game.EVEN {
		return even
	}
	return !even
}

// Energy satisfies EVEN iff the sum of the loop's edge weights is
// non-negative, and satisfies ODD iff it is negative.
type Energy struct {
	G         *game.Game
	PlayerSAT game.Player
}

func (e Energy) Player() game.Player { return e.PlayerSAT }

// Flipped returns the same condition judged for the opposite player.
func (e Energy) Flipped() Condition { e.PlayerSAT = e.PlayerSAT.Opponent(); return e }

func (e Energy) Satisfy(pathV, pathE []int, cycleIndex int) bool {
	loopEdges := pathE[cycleIndex:]
	var sum int64
	for _, edge := range loopEdges {
		sum += e.G.Weights[edge]
	}
	nonNegative := sum >= 0
	if e.PlayerSAT == game.EVEN {
		return nonNegative
	}
	return !nonNegative
}

// MeanPayoff satisfies EVEN iff the loop's average edge weight is at
// least Threshold, and satisfies ODD iff it is strictly below.
// Division is done in floating point purely for the comparison; the
// sum itself is kept as an integer so storage never loses precision.
type MeanPayoff struct {
	G         *game.Game
	PlayerSAT game.Player
	Threshold int64
}

func (m MeanPayoff) Player() game.Player { return m.PlayerSAT }

// Flipped returns the same condition judged for the opposite player.
func (m MeanPayoff) Flipped() Condition { m.PlayerSAT = m.PlayerSAT.Opponent(); return m }

func (m MeanPayoff) Satisfy(pathV, pathE []int, cycleIndex int) bool {
	loopEdges := pathE[cycleIndex:]
	if len(loopEdges) == 0 {
		return m.PlayerSAT != game.EVEN
	}
	var sum int64
	for _, edge := range loopEdges {
		sum += m.G.Weights[edge]
	}
	mean := float64(sum) / float64(len(loopEdges))
	atLeast := mean >= float64(m.Threshold)
	if m.PlayerSAT == game.EVEN {
		return atLeast
	}
	return !atLeast
}

// Set bundles the active conditions for one solve and evaluates their
// combination. All conditions in a Set must share the same PlayerSAT.
// For PlayerSAT==EVEN the predicate "the loop is good for PlayerSAT"
// is the conjunction of every active condition; for PlayerSAT==ODD it
// is the disjunction. This asymmetry is exactly what makes NOC mean
// "no cycle good for the opponent": EVEN-winning play must avoid every
// cycle the opponent could enjoy under any one condition, while ODD
// only needs one condition on its side.
type Set struct {
	Conditions []Condition
	PlayerSAT  game.Player
}

// Flipped returns the same combination judged from the opponent's
// point of view: every condition flips its own target player, and the
// combinator (conjunction vs disjunction) flips with it. The NOC
// propagator uses this to ask "would this committed cycle be a win for
// the opponent", which is exactly the question that must always answer
// no for a sound PlayerSAT strategy.
func (s Set) Flipped() Set {
	out := Set{PlayerSAT: s.PlayerSAT.Opponent(), Conditions: make([]Condition, len(s.Conditions))}
	for i, c := range s.Conditions {
		out.Conditions[i] = c.Flipped()
	}
	return out
}

// GoodFor reports whether the cycle pathV[cycleIndex:] is good for the
// set's PlayerSAT.
func (s Set) GoodFor(pathV, pathE []int, cycleIndex int) bool {
	if len(s.Conditions) == 0 {
		return true
	}
	if s.PlayerSAT == game.EVEN {
		for _, c := range s.Conditions {
			if !c.Satisfy(pathV, pathE, cycleIndex) {
				return false
			}
		}
		return true
	}
	for _, c := range s.Conditions {
		if c.Satisfy(pathV, pathE, cycleIndex) {
			return true
		}
	}
	return false
}
