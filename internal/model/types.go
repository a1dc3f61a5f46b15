package model

// Core domain types shared by the routing engine, the schedule builder and
// the CLI. All quantities are integers in the units of the supplied matrix
// (seconds for real travel-time matrices).

// Problem is one complete, self-contained solve input. Every slice is owned
// by the caller and treated as immutable for the duration of the solve.
type Problem struct {
	// TimeMatrix is the square travel-time matrix; entry [i][j] is the cost
	// of moving directly from location i to location j.
	TimeMatrix [][]int64 `json:"timeMatrix" yaml:"time_matrix"`
	// DriverIndices lists one depot location per vehicle. The location acts
	// as both start and end of that vehicle's route.
	DriverIndices []int `json:"driverIndices" yaml:"driver_indices"`
	// DeliveryPairs are (pickup, delivery) location pairs. A pair with equal
	// entries is a free-standing stop with no ordering constraint.
	DeliveryPairs [][2]int `json:"deliveryPairs,omitempty" yaml:"delivery_pairs,omitempty"`
	// DeliveryWeights holds one capacity demand per delivery pair.
	DeliveryWeights []int64 `json:"deliveryWeights,omitempty" yaml:"delivery_weights,omitempty"`
	// VehicleCapacities bounds the running load per vehicle. Capacity
	// tracking is active only when both weights and capacities are given.
	VehicleCapacities []int64 `json:"vehicleCapacities,omitempty" yaml:"vehicle_capacities,omitempty"`
	// SiteETA is an optional per-location service time charged when leaving
	// that location.
	SiteETA []int64 `json:"siteEta,omitempty" yaml:"site_eta,omitempty"`
	// TimeWorked is optional prior elapsed time per vehicle; a vehicle's
	// first cumulative time value equals this entry.
	TimeWorked []int64 `json:"timeWorked,omitempty" yaml:"time_worked,omitempty"`
	// MaxTime bounds total time per vehicle including prior worked time.
	// Zero means the default of 28800 (eight hours in seconds).
	MaxTime int64 `json:"maxTime,omitempty" yaml:"max_time,omitempty"`
	// Locations optionally names each location for presentation output.
	Locations []string `json:"locations,omitempty" yaml:"locations,omitempty"`
}

// DefaultMaxTime is the per-vehicle working-time budget applied when the
// problem does not specify one.
const DefaultMaxTime int64 = 28800

// MaxTimeOrDefault returns the effective per-vehicle time budget.
func (p Problem) MaxTimeOrDefault() int64 {
	if p.MaxTime > 0 {
		return p.MaxTime
	}
	return DefaultMaxTime
}

// NumLocations returns the matrix dimension.
func (p Problem) NumLocations() int { return len(p.TimeMatrix) }

// NumVehicles returns the fleet size.
func (p Problem) NumVehicles() int { return len(p.DriverIndices) }

// SearchConfig selects the first-solution strategy and the wall-clock budget
// for one solve. It is passed per call; there is no shared default object.
type SearchConfig struct {
	// Strategy names the first-solution heuristic: "path_cheapest_arc"
	// (default) or "parallel_cheapest_insertion".
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	// TimeLimitSeconds bounds the improvement phase. Zero means 10.
	TimeLimitSeconds int `json:"timeLimitSeconds,omitempty" yaml:"time_limit_seconds,omitempty"`
}

// DefaultTimeLimitSeconds is the improvement-phase budget applied when the
// search config does not specify one.
const DefaultTimeLimitSeconds = 10

// Solution is the raw engine output: one route and one parallel cumulative
// time profile per vehicle, in vehicle-index order. Both slices for a
// vehicle always have the same length, and Times[v][0] equals the vehicle's
// prior worked time.
type Solution struct {
	Routes [][]int   `json:"routes"`
	Times  [][]int64 `json:"times"`
}

// Plan is the presentation form of one vehicle's route: an identified
// sequence of legs with durations and arrival offsets.
type Plan struct {
	ID            string `json:"id"`
	Driver        int    `json:"driver"`
	Legs          []Leg  `json:"legs"`
	TotalDriveSec int64  `json:"totalDriveSec"`
}

// Leg is one hop of a plan.
type Leg struct {
	ID         string `json:"id"`
	Seq        int    `json:"seq"`
	From       string `json:"from"`
	To         string `json:"to"`
	DriveSec   int64  `json:"driveSec"`
	ArrivalSec int64  `json:"arrivalSec"`
}
