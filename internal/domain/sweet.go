package domain

import "time"

// Sweet is a catalog item. Quantity is the units in stock; Active is a
// soft-delete flag so removed items keep their history.
type Sweet struct {
	ID          string
	Name        string
	Category    string
	Description string
	Price       float64
	Quantity    int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
