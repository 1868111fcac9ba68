// Package satbackend cross-checks the native cpengine/noc solver
// against a real CNF SAT solver (github.com/crillab/gophersat). Since
// the NOC propagator's graph reasoning has no finite CNF translation
// up front, this package runs a counterexample-guided refinement
// loop: solve the base reachability/exactly-one clauses, look for a
// bad cycle in the model exactly as the native propagator would, and
// if one is found add it as a blocking clause and solve again.
package satbackend

import (
	"fmt"
	"io"

	"github.com/gonocq/nocq/internal/cpengine"
)

// WriteDIMACS renders clauses over nvars variables in DIMACS CNF
// format, the format both gophersat and the --export flags of the
// original CLI family use.
func WriteDIMACS(w io.Writer, nvars int, clauses []cpengine.Clause) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", nvars, len(clauses)); err != nil {
		return err
	}
	for _, c := range clauses {
		for _, l := range c {
			lit := l.Var + 1
			if l.Negated {
				lit = -lit
			}
			if _, err := fmt.Fprintf(w, "%d ", lit); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "0"); err != nil {
			return err
		}
	}
	return nil
}

// toIntClauses converts store clauses to gophersat's int-slice clause
// format (1-based variables, sign encodes polarity).
func toIntClauses(clauses []cpengine.Clause) [][]int {
	out := make([][]int, len(clauses))
	for i, c := range clauses {
		lits := make([]int, len(c))
		for j, l := range c {
			lit := l.Var + 1
			if l.Negated {
				lit = -lit
			}
			lits[j] = lit
		}
		out[i] = lits
	}
	return out
}
