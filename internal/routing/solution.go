package routing

// Assignment is an immutable snapshot of a solved search: per-vehicle
// visit sequences in position space plus the cumulative value of every
// registered dimension at every visited position.
type Assignment struct {
	manager *Manager
	routes  [][]int            // expanded positions per vehicle, start..end
	cumuls  map[string][]int64 // dimension name -> value per position
	cost    int64
}

// extract walks each vehicle's solved unit sequence and records the
// position order and the minimum feasible dimension values.
func (s *Solver) extract(units [][]int, routes [][]int) *Assignment {
	a := &Assignment{
		manager: s.manager,
		routes:  make([][]int, len(routes)),
		cumuls:  make(map[string][]int64, len(s.dims)),
		cost:    s.solutionCost(units, routes),
	}
	for _, d := range s.dims {
		a.cumuls[d.name] = make([]int64, s.manager.Size())
	}
	scratch := make([]int64, s.manager.Size())
	for v := range routes {
		route := s.expand(v, routes[v], units)
		a.routes[v] = route
		for _, d := range s.dims {
			vals := scratch[:len(route)]
			d.cumulsInto(route, v, vals)
			store := a.cumuls[d.name]
			for i, pos := range route {
				store[pos] = vals[i]
			}
		}
	}
	return a
}

// Cost returns the objective value of the assignment, span penalties
// included.
func (a *Assignment) Cost() int64 { return a.cost }

// RouteList returns the physical locations visited by a vehicle, starting
// and ending at its depot.
func (a *Assignment) RouteList(vehicle int) []int {
	route := a.routes[vehicle]
	out := make([]int, len(route))
	for i, pos := range route {
		out[i] = a.manager.IndexToNode(pos)
	}
	return out
}

// RouteCumuls returns the cumulative values of a dimension along a
// vehicle's route, one entry per visited position including the final end
// position. The result is always the same length as RouteList's.
func (a *Assignment) RouteCumuls(dimension string, vehicle int) []int64 {
	store, ok := a.cumuls[dimension]
	if !ok {
		return nil
	}
	route := a.routes[vehicle]
	out := make([]int64, len(route))
	for i, pos := range route {
		out[i] = store[pos]
	}
	return out
}

// Cumul returns one dimension value at one tour position.
func (a *Assignment) Cumul(dimension string, position int) int64 {
	return a.cumuls[dimension][position]
}
