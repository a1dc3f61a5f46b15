// Package schedule turns raw solver output into per-driver plans suitable
// for presentation: identified legs with durations and arrival offsets.
package schedule

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/gtynan/vehicle-routing/internal/model"
)

// FromSolution builds one Plan per vehicle from a solved problem. Leg
// durations are the raw matrix travel costs; arrival offsets come from the
// cumulative time profile, so they include service times and prior worked
// time. Location names come from the problem when supplied, otherwise the
// location id is used.
func FromSolution(p model.Problem, sol model.Solution) []model.Plan {
	plans := make([]model.Plan, len(sol.Routes))
	for v, route := range sol.Routes {
		times := sol.Times[v]
		plan := model.Plan{
			ID:     uuid.NewString(),
			Driver: v,
			Legs:   make([]model.Leg, 0, len(route)-1),
		}
		for i := 0; i+1 < len(route); i++ {
			from, to := route[i], route[i+1]
			plan.Legs = append(plan.Legs, model.Leg{
				ID:         uuid.NewString(),
				Seq:        i,
				From:       locationName(p, from),
				To:         locationName(p, to),
				DriveSec:   p.TimeMatrix[from][to],
				ArrivalSec: times[i+1],
			})
		}
		if n := len(times); n > 0 {
			plan.TotalDriveSec = times[n-1] - times[0]
		}
		plans[v] = plan
	}
	return plans
}

func locationName(p model.Problem, node int) string {
	if p.Locations != nil {
		return p.Locations[node]
	}
	return strconv.Itoa(node)
}
