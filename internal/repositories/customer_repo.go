package repositories

import (
	"context"
	"errors"

	"customerapi/internal/models"
)

// ErrCustomerNotFound is returned by GetByID when no customer has the given ID.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepository defines the interface for customer data access.
// GetAll and GetByName return an empty, non-nil slice when nothing matches.
type CustomerRepository interface {
	GetAll(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByName(ctx context.Context, name string) ([]models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
}
