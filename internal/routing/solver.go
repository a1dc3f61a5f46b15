package routing

import (
	"fmt"
	"time"

	"github.com/gtynan/vehicle-routing/internal/logging"
)

// Strategy selects the first-solution heuristic. The choice is caller
// visible because it materially changes which feasible solution the search
// finds first, especially with pickup-delivery pairs.
type Strategy string

const (
	// PathCheapestArc extends one route at a time by the cheapest feasible
	// outgoing arc.
	PathCheapestArc Strategy = "path_cheapest_arc"
	// ParallelCheapestInsertion inserts the globally cheapest feasible
	// (stop, vehicle, slot) combination across all routes at once.
	ParallelCheapestInsertion Strategy = "parallel_cheapest_insertion"
)

// ParseStrategy maps a config string onto a Strategy. The empty string
// selects PathCheapestArc.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", PathCheapestArc:
		return PathCheapestArc, nil
	case ParallelCheapestInsertion:
		return ParallelCheapestInsertion, nil
	default:
		return "", fmt.Errorf("%w: unknown search strategy %q", ErrConstraintMismatch, name)
	}
}

// SearchConfig configures one Solve call. The zero value means
// PathCheapestArc with a 10 second budget and the system clock.
type SearchConfig struct {
	Strategy  Strategy
	TimeLimit time.Duration
	// Now is the clock used for the wall-clock budget. Tests inject a fixed
	// or accelerated clock to pin the search behavior.
	Now    func() time.Time
	Logger logging.Logger
}

func (c SearchConfig) withDefaults() SearchConfig {
	if c.Strategy == "" {
		c.Strategy = PathCheapestArc
	}
	if c.TimeLimit <= 0 {
		c.TimeLimit = 10 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = logging.Nop{}
	}
	return c
}

// Stats summarizes one finished search.
type Stats struct {
	Iterations   int
	Improvements int
	Cost         int64
	Duration     time.Duration
}

type solveState int

const (
	stateUnsolved solveState = iota
	stateSearching
	stateSolved
	stateFailed
)

// Solver owns the constraint model for one solve: the index manager, the
// arc cost evaluator, registered dimensions and pickup-delivery pairs. It
// is built fresh per solve and must not be shared between concurrent
// solves.
type Solver struct {
	manager   *Manager
	arcCost   TransitFn
	dims      []*Dimension
	dimByName map[string]*Dimension
	pairs     []pickupDelivery
	paired    map[int]pickupDelivery

	state solveState
	stats Stats

	now      func() time.Time
	deadline time.Time
	ticks    int
}

// NewSolver creates an empty model over the given index manager.
func NewSolver(m *Manager) *Solver {
	return &Solver{
		manager:   m,
		dimByName: make(map[string]*Dimension),
		paired:    make(map[int]pickupDelivery),
	}
}

// SetArcCostEvaluator registers the minimization objective: the cost
// accumulated along every vehicle's route, summed across vehicles.
func (s *Solver) SetArcCostEvaluator(fn TransitFn) { s.arcCost = fn }

// Stats returns counters from the last Solve call.
func (s *Solver) Stats() Stats { return s.stats }

// Solve validates the model, builds a first solution with the configured
// strategy and improves it by local search until the wall-clock budget is
// spent or no improving move remains. It never returns a partial
// assignment: on failure the error explains what could not be placed.
func (s *Solver) Solve(cfg SearchConfig) (*Assignment, error) {
	cfg = cfg.withDefaults()
	if s.arcCost == nil {
		return nil, fmt.Errorf("%w: no arc cost evaluator registered", ErrConstraintMismatch)
	}

	s.state = stateSearching
	s.stats = Stats{}
	s.now = cfg.Now
	start := s.now()
	s.deadline = start.Add(cfg.TimeLimit)

	units := s.buildUnits()
	routes := make([][]int, s.manager.NumVehicles())
	for v := range routes {
		routes[v] = []int{}
	}
	assigned := make([]bool, len(units))

	remaining := len(units)
	if cfg.Strategy == PathCheapestArc {
		remaining = s.constructPathCheapestArc(units, routes, assigned, remaining)
	}
	// Parallel cheapest insertion doubles as the repair pass for stops the
	// arc-by-arc construction could not extend onto any route tail.
	remaining = s.constructParallelInsertion(units, routes, assigned, remaining)
	if remaining > 0 {
		s.state = stateFailed
		s.stats.Duration = s.now().Sub(start)
		return nil, fmt.Errorf("%w: %d of %d stops could not be placed within the time and capacity constraints", ErrNoSolution, remaining, len(units))
	}
	cfg.Logger.Debugf("first solution found: cost=%d strategy=%s", s.solutionCost(units, routes), cfg.Strategy)

	s.improve(units, routes)

	s.stats.Cost = s.solutionCost(units, routes)
	s.stats.Duration = s.now().Sub(start)
	s.state = stateSolved
	cfg.Logger.Debugf("search finished: cost=%d iterations=%d improvements=%d", s.stats.Cost, s.stats.Iterations, s.stats.Improvements)
	return s.extract(units, routes), nil
}

// expand materializes a vehicle's route in position space, including its
// start and end positions.
func (s *Solver) expand(vehicle int, unitIdxs []int, units [][]int) []int {
	out := make([]int, 0, len(unitIdxs)*2+2)
	out = append(out, s.manager.Start(vehicle))
	for _, u := range unitIdxs {
		out = append(out, units[u]...)
	}
	return append(out, s.manager.End(vehicle))
}

func (s *Solver) feasibleRoute(vehicle int, unitIdxs []int, units [][]int) bool {
	route := s.expand(vehicle, unitIdxs, units)
	for _, d := range s.dims {
		if !d.feasible(route, vehicle) {
			return false
		}
	}
	return true
}

func (s *Solver) routeArcCost(vehicle int, unitIdxs []int, units [][]int) int64 {
	route := s.expand(vehicle, unitIdxs, units)
	var total int64
	for i := 1; i < len(route); i++ {
		total += s.arcCost(route[i-1], route[i])
	}
	return total
}

// solutionCost is the full objective: summed arc costs plus every
// dimension's global span penalty.
func (s *Solver) solutionCost(units [][]int, routes [][]int) int64 {
	var total int64
	for v := range routes {
		total += s.routeArcCost(v, routes[v], units)
	}
	for _, d := range s.dims {
		if d.spanCoeff <= 0 {
			continue
		}
		var minStart, maxEnd int64
		for v := range routes {
			route := s.expand(v, routes[v], units)
			start := d.startCumul(v)
			end := d.endCumul(route, v)
			if v == 0 || start < minStart {
				minStart = start
			}
			if v == 0 || end > maxEnd {
				maxEnd = end
			}
		}
		total += d.spanCoeff * (maxEnd - minStart)
	}
	return total
}

// constructPathCheapestArc grows each route in vehicle order, always
// appending the unassigned unit with the cheapest arc from the current
// route tail, as long as the extended route stays feasible.
func (s *Solver) constructPathCheapestArc(units [][]int, routes [][]int, assigned []bool, remaining int) int {
	for v := range routes {
		for remaining > 0 {
			tail := s.manager.Start(v)
			if n := len(routes[v]); n > 0 {
				lastUnit := units[routes[v][n-1]]
				tail = lastUnit[len(lastUnit)-1]
			}
			best := -1
			var bestCost int64
			for u := range units {
				if assigned[u] {
					continue
				}
				c := s.arcCost(tail, units[u][0])
				if best != -1 && c >= bestCost {
					continue
				}
				if !s.feasibleRoute(v, append(append([]int(nil), routes[v]...), u), units) {
					continue
				}
				best = u
				bestCost = c
			}
			if best == -1 {
				break
			}
			routes[v] = append(routes[v], best)
			assigned[best] = true
			remaining--
		}
	}
	return remaining
}

// constructParallelInsertion repeatedly inserts the globally cheapest
// feasible (unit, vehicle, slot) choice until nothing is left or nothing
// fits. Ties break on the first candidate in (unit, vehicle, slot) scan
// order, keeping the construction deterministic.
func (s *Solver) constructParallelInsertion(units [][]int, routes [][]int, assigned []bool, remaining int) int {
	for remaining > 0 {
		bestU, bestV, bestSlot := -1, -1, -1
		var bestDelta int64
		for u := range units {
			if assigned[u] {
				continue
			}
			for v := range routes {
				base := s.routeArcCost(v, routes[v], units)
				for slot := 0; slot <= len(routes[v]); slot++ {
					cand := insertUnit(routes[v], slot, u)
					if !s.feasibleRoute(v, cand, units) {
						continue
					}
					delta := s.routeArcCost(v, cand, units) - base
					if bestU == -1 || delta < bestDelta {
						bestU, bestV, bestSlot = u, v, slot
						bestDelta = delta
					}
				}
			}
		}
		if bestU == -1 {
			break
		}
		routes[bestV] = insertUnit(routes[bestV], bestSlot, bestU)
		assigned[bestU] = true
		remaining--
	}
	return remaining
}

// improve runs relocate, exchange and 2-opt passes until no operator finds
// an improving move or the deadline passes. All scans are in fixed index
// order and apply the first strict improvement, so the search is
// deterministic for a given budget and input.
func (s *Solver) improve(units [][]int, routes [][]int) {
	for s.withinBudget() {
		s.stats.Iterations++
		improved := s.relocatePass(units, routes)
		if s.exchangePass(units, routes) {
			improved = true
		}
		if s.twoOptPass(units, routes) {
			improved = true
		}
		if !improved {
			return
		}
		s.stats.Improvements++
	}
}

func (s *Solver) withinBudget() bool { return s.now().Before(s.deadline) }

// budgetTick amortizes clock reads across inner-loop candidates.
func (s *Solver) budgetTick() bool {
	s.ticks++
	if s.ticks%64 != 0 {
		return true
	}
	return s.withinBudget()
}

// relocatePass moves one unit to another position, possibly on another
// vehicle.
func (s *Solver) relocatePass(units [][]int, routes [][]int) bool {
	cur := s.solutionCost(units, routes)
	for a := range routes {
		for i := 0; i < len(routes[a]); i++ {
			u := routes[a][i]
			removed := removeUnit(routes[a], i)
			for b := range routes {
				src := removed
				if b != a {
					src = routes[b]
				}
				for slot := 0; slot <= len(src); slot++ {
					if b == a && slot == i {
						continue
					}
					if !s.budgetTick() {
						return false
					}
					cand := insertUnit(src, slot, u)
					if !s.feasibleRoute(b, cand, units) {
						continue
					}
					trial := snapshot(routes)
					trial[a] = removed
					trial[b] = cand
					if b == a {
						trial[a] = cand
					}
					if s.solutionCost(units, trial) < cur {
						copyRoutes(routes, trial)
						return true
					}
				}
			}
		}
	}
	return false
}

// exchangePass swaps two units between (or within) routes.
func (s *Solver) exchangePass(units [][]int, routes [][]int) bool {
	cur := s.solutionCost(units, routes)
	for a := range routes {
		for i := 0; i < len(routes[a]); i++ {
			for b := a; b < len(routes); b++ {
				jStart := 0
				if b == a {
					jStart = i + 1
				}
				for j := jStart; j < len(routes[b]); j++ {
					if !s.budgetTick() {
						return false
					}
					trial := snapshot(routes)
					ra := append([]int(nil), trial[a]...)
					rb := ra
					if b != a {
						rb = append([]int(nil), trial[b]...)
					}
					ra[i], rb[j] = rb[j], ra[i]
					trial[a], trial[b] = ra, rb
					if !s.feasibleRoute(a, trial[a], units) || !s.feasibleRoute(b, trial[b], units) {
						continue
					}
					if s.solutionCost(units, trial) < cur {
						copyRoutes(routes, trial)
						return true
					}
				}
			}
		}
	}
	return false
}

// twoOptPass reverses a segment of units within one route. Unit interiors
// are never reversed, so pickups stay ahead of their deliveries.
func (s *Solver) twoOptPass(units [][]int, routes [][]int) bool {
	cur := s.solutionCost(units, routes)
	for v := range routes {
		n := len(routes[v])
		for i := 0; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				if !s.budgetTick() {
					return false
				}
				cand := append([]int(nil), routes[v]...)
				for x, y := i, k; x < y; x, y = x+1, y-1 {
					cand[x], cand[y] = cand[y], cand[x]
				}
				if !s.feasibleRoute(v, cand, units) {
					continue
				}
				trial := snapshot(routes)
				trial[v] = cand
				if s.solutionCost(units, trial) < cur {
					copyRoutes(routes, trial)
					return true
				}
			}
		}
	}
	return false
}

func insertUnit(route []int, slot, u int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:slot]...)
	out = append(out, u)
	return append(out, route[slot:]...)
}

func removeUnit(route []int, i int) []int {
	out := make([]int, 0, len(route)-1)
	out = append(out, route[:i]...)
	return append(out, route[i+1:]...)
}

func snapshot(routes [][]int) [][]int {
	return append([][]int(nil), routes...)
}

func copyRoutes(dst, src [][]int) {
	copy(dst, src)
}
