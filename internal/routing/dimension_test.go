package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSolver(t *testing.T, numNodes int, starts []int) (*Solver, *Manager) {
	t.Helper()
	m, err := NewManager(numNodes, starts, starts)
	require.NoError(t, err)
	return NewSolver(m), m
}

func TestDimensionCumulsAndBounds(t *testing.T) {
	s, m := testSolver(t, 4, []int{0})
	unit := func(_, _ int) int64 { return 10 }

	d, err := s.AddDimension("steps", unit, 0, []int64{25}, true)
	require.NoError(t, err)

	p1, _ := m.NodeToIndex(1)
	p2, _ := m.NodeToIndex(2)
	route := []int{m.Start(0), p1, p2, m.End(0)}

	out := make([]int64, len(route))
	assert.False(t, d.cumulsInto(route, 0, out), "30 exceeds the cap of 25")
	assert.Equal(t, []int64{0, 10, 20, 30}, out)

	short := []int{m.Start(0), p1, m.End(0)}
	out = out[:len(short)]
	assert.True(t, d.cumulsInto(short, 0, out))
	assert.Equal(t, []int64{0, 10, 20}, out)
	assert.True(t, d.feasible(short, 0))
	assert.EqualValues(t, 20, d.endCumul(short, 0))
}

func TestDimensionPinnedStart(t *testing.T) {
	s, m := testSolver(t, 3, []int{0})
	unit := func(_, _ int) int64 { return 5 }

	d, err := s.AddDimension("time", unit, 0, []int64{100}, false)
	require.NoError(t, err)
	d.SetStartCumul(0, 40)

	p1, _ := m.NodeToIndex(1)
	route := []int{m.Start(0), p1, m.End(0)}
	out := make([]int64, len(route))
	require.True(t, d.cumulsInto(route, 0, out))
	assert.Equal(t, []int64{40, 45, 50}, out)
}

func TestDimensionForceStartZeroIgnoresPin(t *testing.T) {
	s, _ := testSolver(t, 3, []int{0})
	d, err := s.AddDimension("load", func(_, _ int) int64 { return 0 }, 0, []int64{10}, true)
	require.NoError(t, err)
	d.SetStartCumul(0, 7)
	assert.EqualValues(t, 0, d.startCumul(0))
}

func TestDimensionNegativeCumulInfeasible(t *testing.T) {
	s, m := testSolver(t, 3, []int{0})
	// every arc decrements, so the first hop goes below zero
	d, err := s.AddDimension("load", func(_, _ int) int64 { return -1 }, 0, []int64{10}, true)
	require.NoError(t, err)

	p1, _ := m.NodeToIndex(1)
	assert.False(t, d.feasible([]int{m.Start(0), p1, m.End(0)}, 0))
}

func TestAddDimensionRejectsDuplicatesAndBadCaps(t *testing.T) {
	s, _ := testSolver(t, 3, []int{0})
	_, err := s.AddDimension("time", func(_, _ int) int64 { return 1 }, 0, []int64{10}, false)
	require.NoError(t, err)

	_, err = s.AddDimension("time", func(_, _ int) int64 { return 1 }, 0, []int64{10}, false)
	assert.ErrorIs(t, err, ErrConstraintMismatch)

	_, err = s.AddDimension("load", func(_, _ int) int64 { return 1 }, 0, []int64{10, 20}, false)
	assert.ErrorIs(t, err, ErrConstraintMismatch)
}

func TestDemandEvaluator(t *testing.T) {
	pairs := [][2]int{{1, 2}, {3, 3}, {4, 5}}
	weights := []int64{4, 9, 2}
	d := NewDemandEvaluator(6, pairs, weights)

	assert.EqualValues(t, 0, d.Demand(0))
	assert.EqualValues(t, 4, d.Demand(1))
	assert.EqualValues(t, -4, d.Demand(2))
	// a pair with equal endpoints carries no demand
	assert.EqualValues(t, 0, d.Demand(3))
	assert.EqualValues(t, 2, d.Demand(4))
	assert.EqualValues(t, -2, d.Demand(5))
}

func TestTransitEvaluatorServiceTime(t *testing.T) {
	matrix := [][]int64{
		{0, 10},
		{20, 0},
	}
	plain := NewTransitEvaluator(matrix, nil)
	assert.EqualValues(t, 10, plain.Cost(0, 1))
	assert.EqualValues(t, 20, plain.Cost(1, 0))

	withService := NewTransitEvaluator(matrix, []int64{5, 7})
	assert.EqualValues(t, 15, withService.Cost(0, 1))
	assert.EqualValues(t, 27, withService.Cost(1, 0))
}
