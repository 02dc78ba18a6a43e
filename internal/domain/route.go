package domain

// Path is the result of a single shortest-path query.
// Nodes runs from source to target inclusive. Cost is measured under the weight
// overlay used for the query; LengthMeters is the sum of base edge lengths.
type Path struct {
	Nodes        []NodeID
	Cost         float64
	LengthMeters float64
}

// Represents a multi-stop tour over POIs.
// Stops lists the visiting order (excluding Start); Legs[i] ends at Stops[i],
// plus an optional final leg back to Start.
type TourPlan struct {
	Start             NodeID
	Stops             []NodeID
	Legs              []Path
	TotalCost         float64
	TotalLengthMeters float64
}

// AddLeg appends a leg and updates the totals.
func (t *TourPlan) AddLeg(p Path) {
	t.Legs = append(t.Legs, p)
	t.TotalCost += p.Cost
	t.TotalLengthMeters += p.LengthMeters
}
