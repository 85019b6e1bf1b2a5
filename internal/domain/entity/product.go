package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo. La identidad (ID, SKU) es
// inmutable; precio y punto de reorden los administra el catálogo externo.
type Product struct {
	ID           string
	SKU          string // único
	Name         string
	Description  string
	Category     string
	Weight       float64
	Volume       float64
	UnitPrice    decimal.Decimal // >= 0
	ReorderLevel int64           // >= 0
	CreatedAt    time.Time
}
