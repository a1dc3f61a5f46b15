package routing

import "fmt"

// Manager maps between physical location ids and the tour-position index
// space the solver works in. Every vehicle's start and end occupy their own
// positions, so two vehicles sharing a physical depot stay distinguishable.
//
// The position space is laid out as: one position per non-depot location
// (in increasing location order), then one start position per vehicle, then
// one end position per vehicle.
type Manager struct {
	numNodes    int
	numVehicles int
	starts      []int // physical node per vehicle
	ends        []int

	indexToNode []int // position -> physical node
	nodeToIndex []int // physical node -> stop position, -1 for depot nodes
	numStops    int
}

// NewManager builds the index model for numNodes locations and one vehicle
// per entry of starts/ends. It fails with ErrInvalidTopology when the
// arrays disagree in length or reference locations outside the matrix.
func NewManager(numNodes int, starts, ends []int) (*Manager, error) {
	if len(starts) != len(ends) {
		return nil, fmt.Errorf("%w: %d start nodes but %d end nodes", ErrInvalidTopology, len(starts), len(ends))
	}
	depot := make([]bool, numNodes)
	for _, arr := range [][]int{starts, ends} {
		for v, node := range arr {
			if node < 0 || node >= numNodes {
				return nil, fmt.Errorf("%w: vehicle %d depot node %d out of range [0,%d)", ErrInvalidTopology, v, node, numNodes)
			}
			depot[node] = true
		}
	}

	m := &Manager{
		numNodes:    numNodes,
		numVehicles: len(starts),
		starts:      append([]int(nil), starts...),
		ends:        append([]int(nil), ends...),
		nodeToIndex: make([]int, numNodes),
	}
	for node := 0; node < numNodes; node++ {
		if depot[node] {
			m.nodeToIndex[node] = -1
			continue
		}
		m.nodeToIndex[node] = len(m.indexToNode)
		m.indexToNode = append(m.indexToNode, node)
	}
	m.numStops = len(m.indexToNode)
	m.indexToNode = append(m.indexToNode, starts...)
	m.indexToNode = append(m.indexToNode, ends...)
	return m, nil
}

// Size returns the number of tour positions.
func (m *Manager) Size() int { return m.numStops + 2*m.numVehicles }

// NumStops returns the number of visitable (non-depot) positions.
func (m *Manager) NumStops() int { return m.numStops }

// NumNodes returns the number of physical locations.
func (m *Manager) NumNodes() int { return m.numNodes }

// NumVehicles returns the fleet size.
func (m *Manager) NumVehicles() int { return m.numVehicles }

// IndexToNode returns the physical location at a tour position.
func (m *Manager) IndexToNode(position int) int { return m.indexToNode[position] }

// NodeToIndex returns the stop position of a physical location. The second
// return is false for depot locations, which have no stop position.
func (m *Manager) NodeToIndex(node int) (int, bool) {
	if node < 0 || node >= m.numNodes || m.nodeToIndex[node] < 0 {
		return -1, false
	}
	return m.nodeToIndex[node], true
}

// Start returns the start position of a vehicle.
func (m *Manager) Start(vehicle int) int { return m.numStops + vehicle }

// End returns the end position of a vehicle.
func (m *Manager) End(vehicle int) int { return m.numStops + m.numVehicles + vehicle }

// IsStart reports whether a position is some vehicle's start.
func (m *Manager) IsStart(position int) bool {
	return position >= m.numStops && position < m.numStops+m.numVehicles
}

// IsEnd reports whether a position is some vehicle's end.
func (m *Manager) IsEnd(position int) bool {
	return position >= m.numStops+m.numVehicles && position < m.Size()
}

// VehicleOf returns the owning vehicle of a start or end position, or -1
// for plain stop positions, whose vehicle is decided by the search.
func (m *Manager) VehicleOf(position int) int {
	switch {
	case m.IsStart(position):
		return position - m.numStops
	case m.IsEnd(position):
		return position - m.numStops - m.numVehicles
	default:
		return -1
	}
}
