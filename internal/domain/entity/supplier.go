package entity

import "time"

// Supplier representa un proveedor al que se le emiten órdenes de compra.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	Rating      float64
	CreatedAt   time.Time
}
