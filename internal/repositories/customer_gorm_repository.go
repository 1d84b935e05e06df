package repositories

import (
	"context"
	"errors"
	"fmt"

	"customerapi/internal/models"

	"gorm.io/gorm"
)

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{
		db: db,
	}
}

// GetAll retrieves all customers ordered by ID.
func (r *GORMCustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	customers := make([]models.Customer, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to get all customers: %w", err)
	}
	return customers, nil
}

// GetByID retrieves a single customer by its ID.
func (r *GORMCustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer with ID %d: %w", id, ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by ID %d: %w", id, err)
	}
	return &customer, nil
}

// GetByName retrieves every customer whose name equals name exactly.
func (r *GORMCustomerRepository) GetByName(ctx context.Context, name string) ([]models.Customer, error) {
	customers := make([]models.Customer, 0)
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to get customers by name %q: %w", name, err)
	}
	return customers, nil
}

// Create inserts a new customer; the database assigns the ID.
func (r *GORMCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = 0
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}
