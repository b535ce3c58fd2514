package models

// StockOverride is the legacy per-dish availability record. Recipe based
// availability supersedes it whenever the dish has a recipe.
type StockOverride struct {
	Quantity int  `json:"quantity"`
	Minimum  int  `json:"minimum"`
	Active   bool `json:"active"`
}

// StockOverrides maps a dish name to its legacy override.
type StockOverrides map[string]StockOverride

// DefaultStockOverride is written for every dish created through the back office.
func DefaultStockOverride() StockOverride {
	return StockOverride{Quantity: 10, Minimum: 5, Active: true}
}

// Available reports whether the override allows the dish to be sold.
func (o StockOverride) Available() bool {
	return o.Active && o.Quantity > 0
}
