package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtynan/vehicle-routing/internal/model"
)

// manhattanMatrix builds a symmetric travel-time matrix from planar
// coordinates, the same construction the classic routing examples use.
func manhattanMatrix(coords [][2]int64) [][]int64 {
	n := len(coords)
	matrix := make([][]int64, n)
	for i := range matrix {
		matrix[i] = make([]int64, n)
		for j := range matrix[i] {
			dx := coords[i][0] - coords[j][0]
			dy := coords[i][1] - coords[j][1]
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			matrix[i][j] = dx + dy
		}
	}
	return matrix
}

// thirteen cities, vehicle starts at city 0
var coords13 = [][2]int64{
	{0, 0}, {86, 94}, {14, 12}, {22, 16}, {40, 30}, {26, 42}, {96, 36},
	{2, 14}, {94, 80}, {12, 28}, {30, 62}, {78, 58}, {72, 40},
}

// depot plus sixteen stops on a city grid
var coords17 = [][2]int64{
	{456, 320},
	{228, 0}, {912, 0}, {0, 80}, {114, 80}, {570, 160}, {798, 160},
	{342, 240}, {684, 240}, {570, 400}, {912, 400}, {114, 480},
	{228, 480}, {342, 560}, {684, 560}, {0, 640}, {798, 640},
}

var pairs17 = [][2]int{
	{1, 6}, {2, 10}, {4, 3}, {5, 9}, {7, 8}, {15, 11}, {13, 12}, {16, 14},
}

func quickSearch() model.SearchConfig {
	return model.SearchConfig{TimeLimitSeconds: 2}
}

// checkSolution asserts the structural invariants every feasible output
// must satisfy: depot closure, parallel route/time lengths, monotonic
// times and pinned starting values.
func checkSolution(t *testing.T, p model.Problem, sol model.Solution) {
	t.Helper()
	require.Len(t, sol.Routes, p.NumVehicles())
	require.Len(t, sol.Times, p.NumVehicles())
	for v, route := range sol.Routes {
		times := sol.Times[v]
		require.Equal(t, len(route), len(times), "vehicle %d", v)
		require.GreaterOrEqual(t, len(route), 2, "vehicle %d", v)
		depot := p.DriverIndices[v]
		assert.Equal(t, depot, route[0], "vehicle %d must start at its depot", v)
		assert.Equal(t, depot, route[len(route)-1], "vehicle %d must end at its depot", v)

		worked := int64(0)
		if p.TimeWorked != nil {
			worked = p.TimeWorked[v]
		}
		assert.Equal(t, worked, times[0], "vehicle %d starting time", v)
		for i := 1; i < len(times); i++ {
			assert.LessOrEqual(t, times[i-1], times[i], "vehicle %d times must be non-decreasing", v)
		}
	}
}

// checkCoverage asserts every non-depot location is visited exactly once
// across the fleet.
func checkCoverage(t *testing.T, p model.Problem, sol model.Solution) {
	t.Helper()
	depots := map[int]bool{}
	for _, d := range p.DriverIndices {
		depots[d] = true
	}
	seen := map[int]int{}
	for _, route := range sol.Routes {
		for _, node := range route {
			if !depots[node] {
				seen[node]++
			}
		}
	}
	for node := 0; node < p.NumLocations(); node++ {
		if depots[node] {
			continue
		}
		assert.Equal(t, 1, seen[node], "location %d must be visited exactly once", node)
	}
}

func TestSolveSingleVehicleTour(t *testing.T) {
	p := model.Problem{
		TimeMatrix:    manhattanMatrix(coords13),
		DriverIndices: []int{0},
	}
	sol, err := Solve(p, quickSearch(), nil)
	require.NoError(t, err)

	checkSolution(t, p, sol)
	checkCoverage(t, p, sol)
	// a closed tour over 13 cities has exactly 14 entries
	assert.Len(t, sol.Routes[0], 14)
}

func TestSolveIsDeterministic(t *testing.T) {
	p := model.Problem{
		TimeMatrix:    manhattanMatrix(coords13),
		DriverIndices: []int{0},
	}
	first, err := Solve(p, quickSearch(), nil)
	require.NoError(t, err)
	second, err := Solve(p, quickSearch(), nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSolveFourVehicles(t *testing.T) {
	p := model.Problem{
		TimeMatrix:    manhattanMatrix(coords17),
		DriverIndices: []int{0, 0, 0, 0},
	}
	sol, err := Solve(p, quickSearch(), nil)
	require.NoError(t, err)

	checkSolution(t, p, sol)
	checkCoverage(t, p, sol)
	maxTime := p.MaxTimeOrDefault()
	for v, times := range sol.Times {
		assert.LessOrEqual(t, times[len(times)-1], maxTime, "vehicle %d exceeds the time budget", v)
	}
}

func TestSolvePickupDeliveryPairs(t *testing.T) {
	p := model.Problem{
		TimeMatrix:    manhattanMatrix(coords17),
		DriverIndices: []int{0, 0, 0, 0},
		DeliveryPairs: pairs17,
	}
	cfg := model.SearchConfig{Strategy: "parallel_cheapest_insertion", TimeLimitSeconds: 2}
	sol, err := Solve(p, cfg, nil)
	require.NoError(t, err)

	checkSolution(t, p, sol)
	checkCoverage(t, p, sol)

	position := map[int][2]int{} // node -> (vehicle, index)
	for v, route := range sol.Routes {
		for i, node := range route {
			if node != 0 {
				position[node] = [2]int{v, i}
			}
		}
	}
	for _, pair := range pairs17 {
		pu, ok := position[pair[0]]
		require.True(t, ok, "pickup %d not visited", pair[0])
		de, ok := position[pair[1]]
		require.True(t, ok, "delivery %d not visited", pair[1])
		assert.Equal(t, pu[0], de[0], "pair %v must share a vehicle", pair)
		assert.Equal(t, pu[1]+1, de[1], "delivery %d must immediately follow pickup %d", pair[1], pair[0])
		v := pu[0]
		assert.LessOrEqual(t, sol.Times[v][pu[1]], sol.Times[v][de[1]], "pair %v time order", pair)
	}
}

func TestSolveCapacityBounds(t *testing.T) {
	p := model.Problem{
		TimeMatrix:        manhattanMatrix(coords17),
		DriverIndices:     []int{0, 0, 0, 0},
		DeliveryPairs:     pairs17,
		DeliveryWeights:   []int64{1, 2, 1, 2, 1, 2, 1, 2},
		VehicleCapacities: []int64{4, 4, 4, 4},
	}
	cfg := model.SearchConfig{Strategy: "parallel_cheapest_insertion", TimeLimitSeconds: 2}
	sol, err := Solve(p, cfg, nil)
	require.NoError(t, err)
	checkSolution(t, p, sol)
	checkCoverage(t, p, sol)

	demand := map[int]int64{}
	for i, pair := range pairs17 {
		demand[pair[0]] += p.DeliveryWeights[i]
		demand[pair[1]] -= p.DeliveryWeights[i]
	}
	for v, route := range sol.Routes {
		var load int64
		for _, node := range route {
			load += demand[node]
			assert.GreaterOrEqual(t, load, int64(0), "vehicle %d load went negative", v)
			assert.LessOrEqual(t, load, p.VehicleCapacities[v], "vehicle %d over capacity", v)
		}
	}
}

func TestSolveZeroCapacityVehicleStaysHome(t *testing.T) {
	coords := [][2]int64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}}
	p := model.Problem{
		TimeMatrix:        manhattanMatrix(coords),
		DriverIndices:     []int{0, 0},
		DeliveryPairs:     [][2]int{{1, 2}, {3, 4}},
		DeliveryWeights:   []int64{1, 1},
		VehicleCapacities: []int64{0, 5},
	}
	sol, err := Solve(p, quickSearch(), nil)
	require.NoError(t, err)
	checkSolution(t, p, sol)
	checkCoverage(t, p, sol)
	assert.Equal(t, []int{0, 0}, sol.Routes[0], "zero-capacity vehicle must never leave its depot")
}

func TestSolveWorkedOutVehicleStaysHome(t *testing.T) {
	coords := [][2]int64{{0, 0}, {10, 0}, {0, 10}}
	p := model.Problem{
		TimeMatrix:    manhattanMatrix(coords),
		DriverIndices: []int{0, 0},
		TimeWorked:    []int64{model.DefaultMaxTime, 0},
	}
	sol, err := Solve(p, quickSearch(), nil)
	require.NoError(t, err)
	checkSolution(t, p, sol)
	checkCoverage(t, p, sol)
	assert.Equal(t, []int{0, 0}, sol.Routes[0])
	assert.Equal(t, []int64{model.DefaultMaxTime, model.DefaultMaxTime}, sol.Times[0])
}

func TestSolveInfeasibleBudget(t *testing.T) {
	matrix := manhattanMatrix(coords17)
	for i := range matrix {
		for j := range matrix[i] {
			matrix[i][j] *= 10000
		}
	}
	p := model.Problem{
		TimeMatrix:    matrix,
		DriverIndices: []int{0, 0, 0, 0},
	}
	sol, err := Solve(p, quickSearch(), nil)
	require.ErrorIs(t, err, ErrNoSolution)
	// no partial output on failure
	assert.Empty(t, sol.Routes)
	assert.Empty(t, sol.Times)
}

func TestSolveServiceTimes(t *testing.T) {
	coords := [][2]int64{{0, 0}, {10, 0}, {20, 0}}
	p := model.Problem{
		TimeMatrix:    manhattanMatrix(coords),
		DriverIndices: []int{0},
		SiteETA:       []int64{3, 5, 7},
	}
	sol, err := Solve(p, quickSearch(), nil)
	require.NoError(t, err)
	checkSolution(t, p, sol)
	checkCoverage(t, p, sol)

	route, times := sol.Routes[0], sol.Times[0]
	for i := 1; i < len(route); i++ {
		from, to := route[i-1], route[i]
		want := p.TimeMatrix[from][to] + p.SiteETA[from]
		assert.Equal(t, want, times[i]-times[i-1], "leg %d must include the origin's service time", i)
	}
}

func TestSolveExpiredBudgetStillReturnsFirstSolution(t *testing.T) {
	// a clock that leaps an hour per reading expires the budget before the
	// improvement phase starts; the constructed solution must still be
	// returned in full
	fake := time.Unix(0, 0)
	now := func() time.Time {
		fake = fake.Add(time.Hour)
		return fake
	}
	p := model.Problem{
		TimeMatrix:    manhattanMatrix(coords17),
		DriverIndices: []int{0, 0, 0, 0},
	}
	sol, err := SolveWithSearchConfig(p, SearchConfig{TimeLimit: time.Second, Now: now})
	require.NoError(t, err)
	checkSolution(t, p, sol)
	checkCoverage(t, p, sol)
}

func TestSolveStrategiesBothCover(t *testing.T) {
	p := model.Problem{
		TimeMatrix:    manhattanMatrix(coords17),
		DriverIndices: []int{0, 0, 0, 0},
		DeliveryPairs: pairs17,
	}
	for _, strategy := range []string{"path_cheapest_arc", "parallel_cheapest_insertion"} {
		sol, err := Solve(p, model.SearchConfig{Strategy: strategy, TimeLimitSeconds: 2}, nil)
		require.NoError(t, err, strategy)
		checkSolution(t, p, sol)
		checkCoverage(t, p, sol)
	}
}
