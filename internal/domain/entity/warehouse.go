package entity

import "time"

// Warehouse representa una bodega física. Capacity es un tope opcional.
type Warehouse struct {
	ID        string
	Name      string
	Code      string // único
	Location  string
	Latitude  float64
	Longitude float64
	Capacity  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
