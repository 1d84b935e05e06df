package models

import "time"

// Customer represents a customer of the store.
// Name, FavoriteProduct and Age are optional and serialize as null when unset.
type Customer struct {
	ID              int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            *string `json:"name" gorm:"index" validate:"omitempty,max=30"`
	FavoriteProduct *string `json:"favoriteProduct"`
	Age             *int    `json:"age" validate:"omitempty,min=1,max=120"`
}

// NewCustomer builds a Customer with every optional field set.
func NewCustomer(name, favoriteProduct string, age int) Customer {
	return Customer{
		Name:            &name,
		FavoriteProduct: &favoriteProduct,
		Age:             &age,
	}
}

// HasName reports whether the customer's name is set and equals name exactly.
func (c Customer) HasName(name string) bool {
	return c.Name != nil && *c.Name == name
}

// Clone returns a copy of c that shares no pointers with it.
func (c Customer) Clone() Customer {
	out := Customer{ID: c.ID}
	if c.Name != nil {
		name := *c.Name
		out.Name = &name
	}
	if c.FavoriteProduct != nil {
		product := *c.FavoriteProduct
		out.FavoriteProduct = &product
	}
	if c.Age != nil {
		age := *c.Age
		out.Age = &age
	}
	return out
}

// CustomerCreatedEvent is published after a customer has been persisted.
type CustomerCreatedEvent struct {
	EventID    string    `json:"event_id"`
	CustomerID int64     `json:"customer_id"`
	Name       *string   `json:"name,omitempty"`
	Version    string    `json:"api_version"`
	OccurredAt time.Time `json:"occurred_at"`
}
