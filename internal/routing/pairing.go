package routing

import "fmt"

// pickupDelivery couples two stop positions: the delivery must be served by
// the same vehicle as the pickup, after it, and as its immediate successor.
type pickupDelivery struct {
	pickup   int
	delivery int
}

// AddPickupAndDelivery constrains two locations to be served by the same
// vehicle, in pickup-before-delivery order, with the delivery as the
// immediate next stop. A pair whose endpoints are equal adds no constraint
// and leaves the location a free single stop.
//
// Immediate succession deliberately goes beyond plain ordering: it keeps
// the cargo on board without unrelated stops in between and shrinks the
// search space.
func (s *Solver) AddPickupAndDelivery(pickupNode, deliveryNode int) error {
	if pickupNode == deliveryNode {
		return nil
	}
	p, ok := s.manager.NodeToIndex(pickupNode)
	if !ok {
		return fmt.Errorf("%w: pickup node %d is a depot or out of range", ErrInvalidTopology, pickupNode)
	}
	d, ok := s.manager.NodeToIndex(deliveryNode)
	if !ok {
		return fmt.Errorf("%w: delivery node %d is a depot or out of range", ErrInvalidTopology, deliveryNode)
	}
	if prev, taken := s.paired[p]; taken {
		return fmt.Errorf("%w: node %d already belongs to pair %v", ErrConstraintMismatch, pickupNode, prev)
	}
	if prev, taken := s.paired[d]; taken {
		return fmt.Errorf("%w: node %d already belongs to pair %v", ErrConstraintMismatch, deliveryNode, prev)
	}
	pair := pickupDelivery{pickup: p, delivery: d}
	s.pairs = append(s.pairs, pair)
	s.paired[p] = pair
	s.paired[d] = pair
	return nil
}

// buildUnits groups stop positions into insertion units: a singleton for
// every free stop, and an ordered [pickup, delivery] block for every pair.
// Moving whole units keeps every pairing constraint satisfied by
// construction throughout the search.
func (s *Solver) buildUnits() [][]int {
	units := make([][]int, 0, s.manager.NumStops())
	for pos := 0; pos < s.manager.NumStops(); pos++ {
		pair, ok := s.paired[pos]
		if !ok {
			units = append(units, []int{pos})
			continue
		}
		if pair.pickup == pos {
			units = append(units, []int{pair.pickup, pair.delivery})
		}
		// deliveries ride along with their pickup's unit
	}
	return units
}
