package entity

import "time"

// Tipos de cliente.
const (
	CustomerIndividual = "individual"
	CustomerBusiness   = "business"
)

// Customer representa el cliente que origina pedidos.
type Customer struct {
	ID          string
	Name        string
	Type        string // individual | business
	ContactName string
	Phone       string
	Email       string
	Address     string
	Latitude    float64
	Longitude   float64
	CreatedAt   time.Time
}
