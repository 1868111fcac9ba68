package cpengine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gonocq/nocq/internal/cpengine"
)

func TestUnitPropagationForcesSingleLiteral(t *testing.T) {
	s := cpengine.NewStore()
	a, b := s.NewVar(), s.NewVar()
	s.AddClause(cpengine.Pos(a))
	s.AddClause(cpengine.Neg(a), cpengine.Pos(b))

	require.NoError(t, s.Propagate())
	require.True(t, s.IsTrue(a))
	require.True(t, s.IsTrue(b))
}

func TestPropagateReportsConflict(t *testing.T) {
	s := cpengine.NewStore()
	a := s.NewVar()
	s.AddClause(cpengine.Pos(a))
	s.AddClause(cpengine.Neg(a))

	err := s.Propagate()
	require.Error(t, err)
	var ce *cpengine.ConflictError
	require.True(t, errors.As(err, &ce))
	require.True(t, errors.Is(err, cpengine.ErrConflict))
}

func TestSnapshotUndoRestoresValues(t *testing.T) {
	s := cpengine.NewStore()
	a := s.NewVar()
	mark := s.Snapshot()
	require.NoError(t, s.SetTrue(a, nil))
	require.True(t, s.IsTrue(a))

	s.Undo(mark)
	require.False(t, s.IsFixed(a))
}

func TestSolveFindsSatisfyingAssignment(t *testing.T) {
	s := cpengine.NewStore()
	a, b := s.NewVar(), s.NewVar()
	// (a OR b) AND (NOT a OR NOT b): exactly one of a,b is true.
	s.AddClause(cpengine.Pos(a), cpengine.Pos(b))
	s.AddClause(cpengine.Neg(a), cpengine.Neg(b))

	ok, err := s.Solve(context.Background(), []*cpengine.BoolVar{a, b}, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, s.IsTrue(a), s.IsTrue(b))
}

func TestSolveValueOrderTriesFalseFirst(t *testing.T) {
	s := cpengine.NewStore()
	a := s.NewVar()
	// no constraints at all: the first branch tried (false) must satisfy.
	ok, err := s.Solve(context.Background(), []*cpengine.BoolVar{a}, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, s.IsFalse(a))
}

func TestSolveReturnsFalseWhenUnsatisfiable(t *testing.T) {
	s := cpengine.NewStore()
	a := s.NewVar()
	s.AddClause(cpengine.Pos(a))
	s.AddClause(cpengine.Neg(a))

	ok, err := s.Solve(context.Background(), []*cpengine.BoolVar{a}, 0)
	require.NoError(t, err)
	require.False(t, ok)
}

type alwaysConflict struct{ calls int }

func (c *alwaysConflict) Propagate(s *cpengine.Store) error {
	c.calls++
	return &cpengine.ConflictError{}
}

func TestCustomConstraintIsConsultedDuringPropagate(t *testing.T) {
	s := cpengine.NewStore()
	a := s.NewVar()
	c := &alwaysConflict{}
	s.AddConstraint(c)

	require.NoError(t, s.SetTrue(a, nil))
	err := s.Propagate()
	require.Error(t, err)
	require.Equal(t, 1, c.calls)
}

func TestLearnPersistsAcrossUndo(t *testing.T) {
	s := cpengine.NewStore()
	a := s.NewVar()
	mark := s.Snapshot()
	require.NoError(t, s.SetTrue(a, nil))
	s.Learn(cpengine.Clause{cpengine.Neg(a)})
	s.Undo(mark)

	// the learned unit clause now forces a false on the next propagate.
	require.NoError(t, s.Propagate())
	require.True(t, s.IsFalse(a))
}
