package routing

import "fmt"

// TransitFn is a per-arc increment in tour-position space.
type TransitFn func(fromPosition, toPosition int) int64

// Dimension tracks a cumulative integer quantity (time, load) along each
// route. A route is feasible for the dimension when every cumulative value
// stays within [0, capacity(vehicle)]. Values reported after solving are
// the minimum feasible ones: with zero slack the cumulative profile is
// fully determined by the start value and the per-arc transits.
type Dimension struct {
	name           string
	transit        TransitFn
	slackMax       int64
	caps           []int64 // per vehicle upper bound
	forceStartZero bool
	startCumuls    []int64 // pinned start value per vehicle
	spanCoeff      int64
}

// Name returns the dimension's registration name.
func (d *Dimension) Name() string { return d.name }

// SetGlobalSpanCostCoefficient adds an objective penalty equal to the
// coefficient times the spread between the largest end value and the
// smallest start value across all vehicles. It biases the search toward
// balanced routes instead of one long route plus several idle vehicles.
func (d *Dimension) SetGlobalSpanCostCoefficient(coeff int64) { d.spanCoeff = coeff }

// SetStartCumul pins a vehicle's starting value, e.g. to time already
// worked before the solve. Ignored when the dimension forces starts to
// zero.
func (d *Dimension) SetStartCumul(vehicle int, value int64) {
	if d.forceStartZero {
		return
	}
	d.startCumuls[vehicle] = value
}

func (d *Dimension) startCumul(vehicle int) int64 {
	if d.forceStartZero {
		return 0
	}
	return d.startCumuls[vehicle]
}

// cumulsInto fills out with the cumulative values along route (a sequence
// of tour positions belonging to vehicle) and reports whether every value
// respects the dimension bounds. out must have len(route) entries.
func (d *Dimension) cumulsInto(route []int, vehicle int, out []int64) bool {
	cap := d.caps[vehicle]
	cum := d.startCumul(vehicle)
	out[0] = cum
	if cum < 0 || cum > cap {
		return false
	}
	for i := 1; i < len(route); i++ {
		cum += d.transit(route[i-1], route[i])
		out[i] = cum
		if cum < 0 || cum > cap {
			return false
		}
	}
	return true
}

// feasible reports whether the route respects the dimension bounds.
func (d *Dimension) feasible(route []int, vehicle int) bool {
	cap := d.caps[vehicle]
	cum := d.startCumul(vehicle)
	if cum < 0 || cum > cap {
		return false
	}
	for i := 1; i < len(route); i++ {
		cum += d.transit(route[i-1], route[i])
		if cum < 0 || cum > cap {
			return false
		}
	}
	return true
}

// endCumul returns the final cumulative value of a route, without bound
// checks.
func (d *Dimension) endCumul(route []int, vehicle int) int64 {
	cum := d.startCumul(vehicle)
	for i := 1; i < len(route); i++ {
		cum += d.transit(route[i-1], route[i])
	}
	return cum
}

// AddDimension registers a cumulative dimension on the solver. caps holds
// one upper bound per vehicle; forceStartZero pins every start value to
// zero regardless of SetStartCumul.
func (s *Solver) AddDimension(name string, transit TransitFn, slackMax int64, caps []int64, forceStartZero bool) (*Dimension, error) {
	if _, dup := s.dimByName[name]; dup {
		return nil, fmt.Errorf("%w: dimension %q registered twice", ErrConstraintMismatch, name)
	}
	if len(caps) != s.manager.NumVehicles() {
		return nil, fmt.Errorf("%w: dimension %q has %d capacities for %d vehicles", ErrConstraintMismatch, name, len(caps), s.manager.NumVehicles())
	}
	d := &Dimension{
		name:           name,
		transit:        transit,
		slackMax:       slackMax,
		caps:           append([]int64(nil), caps...),
		forceStartZero: forceStartZero,
		startCumuls:    make([]int64, s.manager.NumVehicles()),
	}
	s.dims = append(s.dims, d)
	s.dimByName[name] = d
	return d, nil
}

// Dimension returns a registered dimension by name.
func (s *Solver) Dimension(name string) (*Dimension, bool) {
	d, ok := s.dimByName[name]
	return d, ok
}
