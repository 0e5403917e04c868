package navgrid

// CostOverlay holds dynamic additive cell costs and the set of cells that
// are always walkable at cost 0.
//
// Not safe for concurrent use: the planner facade is the single writer and
// A* reads it during the facade's call.
type CostOverlay struct {
	costs    map[Coord]float64
	excluded map[Coord]struct{}
}

// NewCostOverlay creates an empty overlay.
func NewCostOverlay() *CostOverlay {
	return &CostOverlay{
		costs:    make(map[Coord]float64),
		excluded: make(map[Coord]struct{}),
	}
}

// SetCost sets the additive cost of c. ImpassableCost blocks the cell.
// Negative costs are stored as 0.
func (o *CostOverlay) SetCost(c Coord, cost float64) {
	if cost < 0 {
		cost = 0
	}
	o.costs[c] = cost
}

// ClearCost removes any dynamic cost from c.
func (o *CostOverlay) ClearCost(c Coord) {
	delete(o.costs, c)
}

// Cost returns the dynamic cost of c. Excluded cells always cost 0.
func (o *CostOverlay) Cost(c Coord) float64 {
	if _, ok := o.excluded[c]; ok {
		return 0
	}
	return o.costs[c]
}

// Exclude marks c as always walkable with cost 0.
func (o *CostOverlay) Exclude(c Coord) {
	o.excluded[c] = struct{}{}
}

// Include reverts Exclude.
func (o *CostOverlay) Include(c Coord) {
	delete(o.excluded, c)
}

// IsExcluded reports whether c was marked by Exclude.
func (o *CostOverlay) IsExcluded(c Coord) bool {
	_, ok := o.excluded[c]
	return ok
}

// Len returns the number of cells with a dynamic cost.
func (o *CostOverlay) Len() int {
	return len(o.costs)
}

// Reset drops all costs and exclusions.
func (o *CostOverlay) Reset() {
	clear(o.costs)
	clear(o.excluded)
}
