package domain

// Stock directions applied per unit of an order's items.
const (
	Release = 1  // units go back to stock
	Hold    = 0  // no stock movement
	Reserve = -1 // units are taken from stock
)

// stockDirections spells out every (from, to) pair. Stock is reserved when the
// order is created, so only moves into and out of CANCELLED touch inventory.
var stockDirections = map[Status]map[Status]int{
	StatusPending: {
		StatusPending:   Hold,
		StatusShipped:   Hold,
		StatusDelivered: Hold,
		StatusCancelled: Release,
	},
	StatusShipped: {
		StatusPending:   Hold,
		StatusShipped:   Hold,
		StatusDelivered: Hold,
		StatusCancelled: Release,
	},
	StatusDelivered: {
		StatusPending:   Hold,
		StatusShipped:   Hold,
		StatusDelivered: Hold,
		StatusCancelled: Release,
	},
	StatusCancelled: {
		StatusPending:   Reserve,
		StatusShipped:   Reserve,
		StatusDelivered: Reserve,
		StatusCancelled: Hold,
	},
}

// StockDirection returns Release, Hold or Reserve for a status change.
// Unknown statuses never move stock.
func StockDirection(from, to Status) int {
	return stockDirections[from][to]
}

// ProductQuantity is a product id paired with a unit count.
type ProductQuantity struct {
	ProductID string
	Quantity  int
}

// StockDelta is a signed adjustment for one product's stock counter.
type StockDelta struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

// StockDeltas expands the direction of a transition from the current status
// into one adjustment per product. It returns nil when no stock moves.
func (o *Order) StockDeltas(to Status) []StockDelta {
	direction := StockDirection(o.Status, to)
	if direction == Hold {
		return nil
	}
	demand := o.Demand()
	deltas := make([]StockDelta, 0, len(demand))
	for _, d := range demand {
		deltas = append(deltas, StockDelta{ProductID: d.ProductID, Delta: direction * d.Quantity})
	}
	return deltas
}
