package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"customerapi/internal/models"
)

// MemoryCustomerRepository is an in-memory implementation of CustomerRepository.
type MemoryCustomerRepository struct {
	customers map[int64]models.Customer
	nextID    int64
	mu        sync.RWMutex
}

// NewMemoryCustomerRepository creates a new instance of MemoryCustomerRepository.
func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{
		customers: make(map[int64]models.Customer),
		nextID:    1,
	}
}

// GetAll returns all customers ordered by ID.
func (r *MemoryCustomerRepository) GetAll(_ context.Context) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(models.Customer) bool { return true }), nil
}

// GetByID returns a customer by its ID.
func (r *MemoryCustomerRepository) GetByID(_ context.Context, id int64) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer with ID %d: %w", id, ErrCustomerNotFound)
	}
	customer = customer.Clone()
	return &customer, nil
}

// GetByName returns the customers whose name equals name exactly.
func (r *MemoryCustomerRepository) GetByName(_ context.Context, name string) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(c models.Customer) bool { return c.HasName(name) }), nil
}

// Create stores a copy of customer under a freshly assigned ID.
func (r *MemoryCustomerRepository) Create(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer.ID = r.nextID
	r.nextID++
	r.customers[customer.ID] = customer.Clone()
	return nil
}

// collect must be called with r.mu held.
func (r *MemoryCustomerRepository) collect(keep func(models.Customer) bool) []models.Customer {
	list := make([]models.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if keep(c) {
			list = append(list, c.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
