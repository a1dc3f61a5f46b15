package routing

// TransitEvaluator computes the cost of moving between two physical
// locations. It holds references to the caller's immutable arrays and is
// built fresh per solve; Cost is pure and allocation-free, since the search
// calls it an unbounded number of times.
type TransitEvaluator struct {
	matrix  [][]int64
	service []int64
}

// NewTransitEvaluator wraps a travel-time matrix and an optional
// per-location service time charged when leaving a location. A nil service
// slice means no dwell time anywhere.
func NewTransitEvaluator(matrix [][]int64, service []int64) *TransitEvaluator {
	return &TransitEvaluator{matrix: matrix, service: service}
}

// Cost returns the travel cost from one location to another, plus the
// origin's service time when configured.
func (e *TransitEvaluator) Cost(from, to int) int64 {
	c := e.matrix[from][to]
	if e.service != nil {
		c += e.service[from]
	}
	return c
}

// DemandEvaluator reports the signed capacity demand incurred when leaving
// a location: +weight at a pickup, -weight at the paired delivery, zero
// everywhere else (including depots and pairs whose pickup equals their
// delivery).
type DemandEvaluator struct {
	perNode []int64
}

// NewDemandEvaluator precomputes per-location demand from delivery pairs
// and their weights. Pairs with equal endpoints contribute nothing.
func NewDemandEvaluator(numNodes int, pairs [][2]int, weights []int64) *DemandEvaluator {
	perNode := make([]int64, numNodes)
	for i, pair := range pairs {
		if pair[0] == pair[1] {
			continue
		}
		perNode[pair[0]] += weights[i]
		perNode[pair[1]] -= weights[i]
	}
	return &DemandEvaluator{perNode: perNode}
}

// Demand returns the signed load change when leaving a location.
func (e *DemandEvaluator) Demand(node int) int64 { return e.perNode[node] }
