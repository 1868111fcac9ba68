package satbackend

import (
	"fmt"

	gsolver "github.com/crillab/gophersat/solver"

	"github.com/gonocq/nocq/internal/cpengine"
	"github.com/gonocq/nocq/internal/game"
	"github.com/gonocq/nocq/internal/noc"
	"github.com/gonocq/nocq/internal/wincond"
)

// Result mirrors noc.Result so callers can compare the two backends
// directly.
type Result struct {
	Sat      bool
	Vertices []int
	Edges    []int
}

// modelTruth adapts a solved gophersat model ([]bool indexed by
// 0-based variable) to the noc.Truth interface so the exact same
// cycle walk the native propagator runs can be reused here. A solved
// model has no unfixed state, so IsFalse is just the complement of
// IsTrue.
type modelTruth []bool

func (m modelTruth) IsTrue(v *cpengine.BoolVar) bool {
	if v.ID < 0 || v.ID >= len(m) {
		return false
	}
	return m[v.ID]
}

func (m modelTruth) IsFalse(v *cpengine.BoolVar) bool {
	return !m.IsTrue(v)
}

// maxCegarRounds bounds the counterexample-guided refinement loop as a
// safety valve against a modeling bug that would otherwise refine
// forever; a genuine instance never needs anywhere near this many
// rounds because each round forbids at least one concrete cycle.
const maxCegarRounds = 10000

// Solve decides satisfiability the same way noc.Solve does, but
// through repeated calls to an external CNF SAT solver instead of the
// native propagator. It exists to cross-check the native engine's
// no-good reasoning: the two must always agree.
func Solve(g *game.Game, playerSAT game.Player, conds wincond.Set) (Result, error) {
	enc := noc.Build(g, playerSAT, conds)
	clauses := enc.Store.Clauses()

	for round := 0; round < maxCegarRounds; round++ {
		problem, err := gsolver.ParseSlice(toIntClauses(clauses))
		if err != nil {
			return Result{}, fmt.Errorf("satbackend: building problem: %w", err)
		}
		s := gsolver.New(problem)
		status := s.Solve()
		if status == gsolver.Unsat {
			return Result{Sat: false}, nil
		}
		model := modelTruth(s.Model())
		loopEdges, bad := enc.FindBadCycle(model)
		if !bad {
			return Result{
				Sat:      true,
				Vertices: extractTrue(model, enc.V),
				Edges:    extractTrue(model, enc.E),
			}, nil
		}
		lits := make([]cpengine.Lit, len(loopEdges))
		for i, e := range loopEdges {
			lits[i] = cpengine.Neg(enc.E[e])
		}
		clauses = append(clauses, cpengine.Clause(lits))
	}
	return Result{}, fmt.Errorf("satbackend: exceeded %d CEGAR rounds without converging", maxCegarRounds)
}

func extractTrue(model modelTruth, vars []*cpengine.BoolVar) []int {
	var out []int
	for id, v := range vars {
		if model.IsTrue(v) {
			out = append(out, id)
		}
	}
	return out
}
