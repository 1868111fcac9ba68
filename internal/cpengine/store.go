// Package cpengine is the boolean-variable constraint store the NOC
// encoding is built on: fresh boolean variables, clause constraints,
// a fixpoint propagation loop that also runs every attached custom
// propagator in each round, and a depth-first search driver
// that branches in variable-index order trying value 0 (false) first.
// It plays the role of an external "CP engine" backend (see
// internal/noc), implemented natively rather than bound to a
// particular solver so the repository has one engine that needs no
// cgo or network calls; internal/satbackend wires the same contract to
// a real SAT solver for cross-checking.
package cpengine

import (
	"context"
	"errors"
	"fmt"
)

// Value is the three-state domain of a boolean variable during search:
// a variable starts Unfixed and is narrowed to False or True, never
// back.
type Value int8

const (
	Unfixed Value = iota
	False
	True
)

func (v Value) String() string {
	switch v {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "unfixed"
	}
}

// BoolVar is a single boolean decision variable.
type BoolVar struct {
	ID    int
	value Value
}

// Lit is a literal over a BoolVar: positive if Negated is false.
type Lit struct {
	Var     int
	Negated bool
}

// Pos builds the positive literal of a variable.
func Pos(v *BoolVar) Lit { return Lit{Var: v.ID} }

// Neg builds the negative literal of a variable.
func Neg(v *BoolVar) Lit { return Lit{Var: v.ID, Negated: true} }

func (l Lit) String() string {
	if l.Negated {
		return fmt.Sprintf("¬V%d", l.Var)
	}
	return fmt.Sprintf("V%d", l.Var)
}

// Clause is a disjunction of literals, used both as a posted
// constraint and as the reason clause attached to a propagator's
// forced assignment.
type Clause []Lit

func (c Clause) String() string {
	s := "("
	for i, l := range c {
		if i > 0 {
			s += " ∨ "
		}
		s += l.String()
	}
	return s + ")"
}

var (
	// ErrConflict is returned by store mutators when the requested
	// change contradicts an already-fixed variable.
	ErrConflict = errors.New("cpengine: conflict")
)

// ConflictError carries the clause that could not be satisfied, for
// callers that want to report or cross-check the explanation.
type ConflictError struct {
	Reason Clause
}

func (e *ConflictError) Error() string {
	if len(e.Reason) == 0 {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("cpengine: conflict, reason %s", e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Constraint is a custom propagator attached to the store. Propagate
// is called once in every round of the store's fixpoint loop, after
// the clause sweep; it narrows variables via the store's SetTrue and
// SetFalse methods and returns an error (wrapping
// ErrConflict) if no completion of the current partial assignment can
// be accepted.
type Constraint interface {
	Propagate(s *Store) error
}

type trailEntry struct {
	varID int
	prev  Value
}

// Store holds the variables, posted clauses and custom propagators for
// one solve. It is single-threaded and cooperative: the search driver
// and every propagator run on the caller's goroutine.
type Store struct {
	vars        []*BoolVar
	clauses     []Clause
	propagators []Constraint
	trail       []trailEntry
	dirty       bool // whether any variable changed since propagators last ran to fixpoint
}

// NewStore creates an empty boolean constraint store.
func NewStore() *Store {
	return &Store{}
}

// NewVar allocates a fresh unfixed boolean variable.
func (s *Store) NewVar() *BoolVar {
	v := &BoolVar{ID: len(s.vars)}
	s.vars = append(s.vars, v)
	return v
}

// NewVars allocates n fresh unfixed boolean variables.
func (s *Store) NewVars(n int) []*BoolVar {
	out := make([]*BoolVar, n)
	for i := range out {
		out[i] = s.NewVar()
	}
	return out
}

// NVars returns the number of variables registered with the store.
func (s *Store) NVars() int { return len(s.vars) }

// Clauses returns every clause currently posted to the store,
// including no-goods learned by custom propagators. Callers that need
// a snapshot of the problem in pure CNF form (DIMACS export, an
// external SAT backend) use this rather than reaching into the store.
func (s *Store) Clauses() []Clause {
	out := make([]Clause, len(s.clauses))
	copy(out, s.clauses)
	return out
}

// Var returns the variable with the given id.
func (s *Store) Var(id int) *BoolVar { return s.vars[id] }

// AddClause posts a disjunction of literals as a permanent constraint.
func (s *Store) AddClause(lits ...Lit) {
	s.clauses = append(s.clauses, Clause(append([]Lit(nil), lits...)))
}

// AddConstraint attaches a custom propagator to the store.
func (s *Store) AddConstraint(c Constraint) {
	s.propagators = append(s.propagators, c)
}

// Learn permanently adds a clause discovered during search (a
// no-good) so that later branches benefit from it too. Unlike
// AddClause it takes effect immediately: the next call to Propagate
// will see it.
func (s *Store) Learn(c Clause) {
	s.clauses = append(s.clauses, append(Clause(nil), c...))
	s.dirty = true
}

// IsTrue, IsFalse and IsFixed query a variable's current value.
func (s *Store) IsTrue(v *BoolVar) bool  { return v.value == True }
func (s *Store) IsFalse(v *BoolVar) bool { return v.value == False }
func (s *Store) IsFixed(v *BoolVar) bool { return v.value != Unfixed }

// LitHolds reports whether a literal is satisfied by the current
// assignment (false if the underlying variable is unfixed).
func (s *Store) LitHolds(l Lit) bool {
	v := s.vars[l.Var]
	if l.Negated {
		return v.value == False
	}
	return v.value == True
}

// LitFailed reports whether a literal is falsified by the current
// assignment (false if the underlying variable is unfixed).
func (s *Store) LitFailed(l Lit) bool {
	v := s.vars[l.Var]
	if l.Negated {
		return v.value == True
	}
	return v.value == False
}

// Snapshot returns a mark on the trail that Undo can later roll back
// to.
func (s *Store) Snapshot() int { return len(s.trail) }

// Undo rolls the store back to a previous Snapshot.
func (s *Store) Undo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		e := s.trail[i]
		s.vars[e.varID].value = e.prev
	}
	s.trail = s.trail[:mark]
}

// record pushes the previous value of v onto the trail before
// overwriting it.
func (s *Store) record(v *BoolVar) {
	s.trail = append(s.trail, trailEntry{varID: v.ID, prev: v.value})
}

// SetTrue fixes v to true. reason, when non-nil, is the clause that
// justified the assignment; it is only used to build a ConflictError
// if the assignment turns out to be impossible.
func (s *Store) SetTrue(v *BoolVar, reason Clause) error {
	return s.fix(v, True, reason)
}

// SetFalse fixes v to false, mirroring SetTrue. This is the operation
// the NOC propagator uses to forbid the last edge of a bad cycle.
func (s *Store) SetFalse(v *BoolVar, reason Clause) error {
	return s.fix(v, False, reason)
}

func (s *Store) fix(v *BoolVar, want Value, reason Clause) error {
	if v.value == want {
		return nil
	}
	if v.value != Unfixed {
		return &ConflictError{Reason: reason}
	}
	s.record(v)
	v.value = want
	s.dirty = true
	return nil
}

// Propagate runs posted clauses to unit-propagation fixpoint,
// interleaved with every registered Constraint, until either a
// contradiction is found or no variable changes in a full round. The
// engine guarantees propagators run to fixpoint between decision
// nodes; this method is that fixpoint computation.
func (s *Store) Propagate() error {
	for {
		s.dirty = false
		if err := s.propagateClauses(); err != nil {
			return err
		}
		for _, c := range s.propagators {
			if err := c.Propagate(s); err != nil {
				return err
			}
		}
		if !s.dirty {
			return nil
		}
	}
}

// propagateClauses runs one eager unit-propagation sweep over every
// posted clause, repeating until the sweep finds nothing new. Clauses
// are small and few relative to the NOC propagator's own graph walk,
// so a full rescan (rather than two-watched-literal bookkeeping) keeps
// this half of the engine simple without being the bottleneck.
func (s *Store) propagateClauses() error {
	for {
		changed := false
		for _, c := range s.clauses {
			unknownCount := 0
			var unknownLit Lit
			satisfied := false
			for _, l := range c {
				if s.LitHolds(l) {
					satisfied = true
					break
				}
				if !s.LitFailed(l) {
					unknownCount++
					unknownLit = l
				}
			}
			if satisfied {
				continue
			}
			if unknownCount == 0 {
				return &ConflictError{Reason: c}
			}
			if unknownCount == 1 {
				if unknownLit.Negated {
					if err := s.SetFalse(s.vars[unknownLit.Var], c); err != nil {
						return err
					}
				} else {
					if err := s.SetTrue(s.vars[unknownLit.Var], c); err != nil {
						return err
					}
				}
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

// Solve runs a depth-first search over every variable in vars, in
// index order, trying value false first then true at each choice
// point. It returns true and leaves the store at the first satisfying
// assignment found, or false with the store reset to its pre-search
// state if the search is exhausted. limit bounds the number of
// decision nodes explored as a safety valve; pass 0 for unlimited.
func (s *Store) Solve(ctx context.Context, vars []*BoolVar, limit int) (bool, error) {
	base := s.Snapshot()
	if err := s.Propagate(); err != nil {
		s.Undo(base)
		var ce *ConflictError
		if errors.As(err, &ce) {
			return false, nil
		}
		return false, err
	}
	ok, err := s.searchVars(ctx, vars, 0, limit, new(int))
	if err != nil || !ok {
		s.Undo(base)
	}
	return ok, err
}

func (s *Store) searchVars(ctx context.Context, vars []*BoolVar, idx, limit int, nodes *int) (bool, error) {
	for idx < len(vars) && vars[idx].value != Unfixed {
		idx++
	}
	if idx == len(vars) {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	v := vars[idx]
	for _, val := range [2]Value{False, True} {
		if limit > 0 {
			*nodes++
			if *nodes > limit {
				return false, nil
			}
		}
		mark := s.Snapshot()
		if err := s.fix(v, val, nil); err == nil {
			if err := s.Propagate(); err == nil {
				ok, err := s.searchVars(ctx, vars, idx+1, limit, nodes)
				if err != nil {
					return false, err
				}
				if ok {
					return true, nil
				}
			} else if !errors.Is(err, ErrConflict) {
				return false, err
			}
		}
		s.Undo(mark)
	}
	return false, nil
}

// Assignment reads the current true/false value of each of vars,
// used by result extraction after a successful Solve.
func (s *Store) Assignment(vars []*BoolVar) []bool {
	out := make([]bool, len(vars))
	for i, v := range vars {
		out[i] = v.value == True
	}
	return out
}
