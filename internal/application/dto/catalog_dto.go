package dto

import (
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Weight       float64         `json:"weight,omitempty"`
	Volume       float64         `json:"volume,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int64           `json:"reorder_level,omitempty"`
}

// ProductResponse respuesta de producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Weight       float64         `json:"weight,omitempty"`
	Volume       float64         `json:"volume,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int64           `json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewProductResponse adapta la entidad a la respuesta HTTP.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Weight:       p.Weight,
		Volume:       p.Volume,
		UnitPrice:    p.UnitPrice,
		ReorderLevel: p.ReorderLevel,
		CreatedAt:    p.CreatedAt,
	}
}

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Location  string  `json:"location,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Capacity  *int64  `json:"capacity,omitempty"`
}

// WarehouseResponse respuesta de bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Location  string    `json:"location,omitempty"`
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
	Capacity  *int64    `json:"capacity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWarehouseResponse adapta la entidad a la respuesta HTTP.
func NewWarehouseResponse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Code:      w.Code,
		Location:  w.Location,
		Latitude:  w.Latitude,
		Longitude: w.Longitude,
		Capacity:  w.Capacity,
		CreatedAt: w.CreatedAt,
	}
}
