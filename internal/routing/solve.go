package routing

import (
	"fmt"
	"math"
	"time"

	"github.com/gtynan/vehicle-routing/internal/logging"
	"github.com/gtynan/vehicle-routing/internal/metrics"
	"github.com/gtynan/vehicle-routing/internal/model"
)

// Dimension names registered by Solve.
const (
	TimeDimension     = "Time"
	CapacityDimension = "Capacity"
)

// unboundedCumul is the cap used when a dimension has no real bound. Kept
// far from the int64 ceiling so accumulation cannot overflow.
const unboundedCumul = math.MaxInt64 / 4

// globalSpanWeight penalizes the spread between the longest and shortest
// route durations, in the units of the cost matrix.
const globalSpanWeight = 100

// ValidateProblem checks every precondition of a solve without running
// any search. Violations map onto ErrInvalidTopology (bad index arrays)
// or ErrConstraintMismatch (inconsistent lengths, bad values).
func ValidateProblem(p model.Problem) error {
	n := p.NumLocations()
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 locations, got %d", ErrConstraintMismatch, n)
	}
	for i, row := range p.TimeMatrix {
		if len(row) != n {
			return fmt.Errorf("%w: time_matrix row %d has %d entries, want %d", ErrConstraintMismatch, i, len(row), n)
		}
		for j, c := range row {
			if c < 0 {
				return fmt.Errorf("%w: time_matrix[%d][%d] is negative", ErrConstraintMismatch, i, j)
			}
		}
	}
	if p.NumVehicles() < 1 {
		return fmt.Errorf("%w: need at least 1 vehicle", ErrConstraintMismatch)
	}
	for v, node := range p.DriverIndices {
		if node < 0 || node >= n {
			return fmt.Errorf("%w: driver_indices[%d] = %d out of range [0,%d)", ErrInvalidTopology, v, node, n)
		}
	}
	for i, pair := range p.DeliveryPairs {
		for _, node := range pair {
			if node < 0 || node >= n {
				return fmt.Errorf("%w: delivery_pairs[%d] references node %d out of range [0,%d)", ErrInvalidTopology, i, node, n)
			}
		}
	}
	if p.DeliveryWeights != nil && len(p.DeliveryWeights) != len(p.DeliveryPairs) {
		return fmt.Errorf("%w: delivery_weights has %d entries, want %d (one per delivery pair)", ErrConstraintMismatch, len(p.DeliveryWeights), len(p.DeliveryPairs))
	}
	for i, w := range p.DeliveryWeights {
		if w < 0 {
			return fmt.Errorf("%w: delivery_weights[%d] is negative", ErrConstraintMismatch, i)
		}
	}
	if p.VehicleCapacities != nil && len(p.VehicleCapacities) != p.NumVehicles() {
		return fmt.Errorf("%w: vehicle_capacities has %d entries, want %d (one per vehicle)", ErrConstraintMismatch, len(p.VehicleCapacities), p.NumVehicles())
	}
	for v, c := range p.VehicleCapacities {
		if c < 0 {
			return fmt.Errorf("%w: vehicle_capacities[%d] is negative", ErrConstraintMismatch, v)
		}
	}
	if p.SiteETA != nil && len(p.SiteETA) != n {
		return fmt.Errorf("%w: site_eta has %d entries, want %d (one per location)", ErrConstraintMismatch, len(p.SiteETA), n)
	}
	for i, t := range p.SiteETA {
		if t < 0 {
			return fmt.Errorf("%w: site_eta[%d] is negative", ErrConstraintMismatch, i)
		}
	}
	if p.TimeWorked != nil && len(p.TimeWorked) != p.NumVehicles() {
		return fmt.Errorf("%w: time_worked has %d entries, want %d (one per vehicle)", ErrConstraintMismatch, len(p.TimeWorked), p.NumVehicles())
	}
	for v, t := range p.TimeWorked {
		if t < 0 {
			return fmt.Errorf("%w: time_worked[%d] is negative", ErrConstraintMismatch, v)
		}
	}
	if p.Locations != nil && len(p.Locations) != n {
		return fmt.Errorf("%w: locations has %d entries, want %d (one per location)", ErrConstraintMismatch, len(p.Locations), n)
	}
	return nil
}

// Solve runs one complete stateless solve: validation, model setup,
// search and extraction. On success it returns per-vehicle routes and
// cumulative time profiles in vehicle-index order; on failure it returns
// exactly one typed error and no partial output.
func Solve(p model.Problem, cfg model.SearchConfig, log logging.Logger) (model.Solution, error) {
	strategy, err := ParseStrategy(cfg.Strategy)
	if err != nil {
		metrics.ObserveSolve(cfg.Strategy, "invalid", 0, 0)
		return model.Solution{}, err
	}
	limit := time.Duration(cfg.TimeLimitSeconds) * time.Second
	if cfg.TimeLimitSeconds <= 0 {
		limit = model.DefaultTimeLimitSeconds * time.Second
	}
	return SolveWithSearchConfig(p, SearchConfig{Strategy: strategy, TimeLimit: limit, Logger: log})
}

// SolveWithSearchConfig is Solve with full control over the search
// parameters, including the injectable clock used in tests.
func SolveWithSearchConfig(p model.Problem, cfg SearchConfig) (model.Solution, error) {
	cfg = cfg.withDefaults()
	start := cfg.Now()

	if err := ValidateProblem(p); err != nil {
		metrics.ObserveSolve(string(cfg.Strategy), "invalid", cfg.Now().Sub(start), 0)
		return model.Solution{}, err
	}

	solver, err := buildSolver(p)
	if err != nil {
		metrics.ObserveSolve(string(cfg.Strategy), "invalid", cfg.Now().Sub(start), 0)
		return model.Solution{}, err
	}

	assignment, err := solver.Solve(cfg)
	if err != nil {
		metrics.ObserveSolve(string(cfg.Strategy), "no_solution", cfg.Now().Sub(start), solver.Stats().Iterations)
		return model.Solution{}, err
	}
	metrics.ObserveSolve(string(cfg.Strategy), "solved", cfg.Now().Sub(start), solver.Stats().Iterations)
	metrics.BestCost.Set(float64(assignment.Cost()))

	nVehicles := p.NumVehicles()
	sol := model.Solution{
		Routes: make([][]int, nVehicles),
		Times:  make([][]int64, nVehicles),
	}
	for v := 0; v < nVehicles; v++ {
		sol.Routes[v] = assignment.RouteList(v)
		sol.Times[v] = assignment.RouteCumuls(TimeDimension, v)
	}
	return sol, nil
}

// buildSolver assembles the constraint model for a validated problem:
// index manager, transit evaluator as both objective and time transit,
// the time dimension (span-penalized, start pinned to prior worked time),
// the optional capacity dimension and all pickup-delivery pairs.
func buildSolver(p model.Problem) (*Solver, error) {
	manager, err := NewManager(p.NumLocations(), p.DriverIndices, p.DriverIndices)
	if err != nil {
		return nil, err
	}
	solver := NewSolver(manager)

	evaluator := NewTransitEvaluator(p.TimeMatrix, p.SiteETA)
	transit := func(fromPos, toPos int) int64 {
		return evaluator.Cost(manager.IndexToNode(fromPos), manager.IndexToNode(toPos))
	}
	solver.SetArcCostEvaluator(transit)

	nVehicles := p.NumVehicles()
	// A lone vehicle with no prior worked time runs without a real time
	// bound, matching the single-vehicle traveling-salesman behavior; the
	// span penalty only matters once routes can be traded between
	// vehicles.
	bounded := nVehicles > 1 || p.TimeWorked != nil
	timeCaps := make([]int64, nVehicles)
	for v := range timeCaps {
		if bounded {
			timeCaps[v] = p.MaxTimeOrDefault()
		} else {
			timeCaps[v] = unboundedCumul
		}
	}
	timeDim, err := solver.AddDimension(TimeDimension, transit, 0, timeCaps, false)
	if err != nil {
		return nil, err
	}
	if nVehicles > 1 {
		timeDim.SetGlobalSpanCostCoefficient(globalSpanWeight)
	}
	for v, worked := range p.TimeWorked {
		timeDim.SetStartCumul(v, worked)
	}

	if p.DeliveryWeights != nil && p.VehicleCapacities != nil {
		demand := NewDemandEvaluator(p.NumLocations(), p.DeliveryPairs, p.DeliveryWeights)
		loadTransit := func(fromPos, _ int) int64 {
			return demand.Demand(manager.IndexToNode(fromPos))
		}
		if _, err := solver.AddDimension(CapacityDimension, loadTransit, 0, p.VehicleCapacities, true); err != nil {
			return nil, err
		}
	}

	for _, pair := range p.DeliveryPairs {
		if err := solver.AddPickupAndDelivery(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	return solver, nil
}
