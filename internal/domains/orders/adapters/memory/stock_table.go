package memory

import "sync"

var _ Inventory = (*StockTable)(nil)

// StockTable is a standalone Inventory keyed by product id.
type StockTable struct {
	mu    sync.RWMutex
	stock map[string]int
}

// NewStockTable copies the initial stock levels.
func NewStockTable(initial map[string]int) *StockTable {
	stock := make(map[string]int, len(initial))
	for id, qty := range initial {
		stock[id] = qty
	}
	return &StockTable{stock: stock}
}

func (t *StockTable) Stock(productID string) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	qty, ok := t.stock[productID]
	return qty, ok
}

func (t *StockTable) SetStock(productID string, stock int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.stock[productID]; !ok {
		return false
	}
	t.stock[productID] = stock
	return true
}
