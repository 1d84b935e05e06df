package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"customerapi/internal/models"
	"customerapi/internal/repositories"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Surface names the API version a request arrived on.
type Surface string

const (
	SurfaceV1 Surface = "v1"
	SurfaceV2 Surface = "v2"
)

var customersCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "customers_created_total",
	Help: "Total number of customers persisted, by API surface.",
}, []string{"surface"})

// CustomerEventPublisher publishes customer lifecycle events.
type CustomerEventPublisher interface {
	PublishCustomerCreated(event models.CustomerCreatedEvent) error
}

// CustomerService handles business logic related to customers.
// It is shared by every API surface.
type CustomerService struct {
	repo      repositories.CustomerRepository
	validator *CustomerValidator
	publisher CustomerEventPublisher
	logger    *slog.Logger
}

// NewCustomerService creates a new CustomerService. publisher may be nil,
// in which case no events are published.
func NewCustomerService(repo repositories.CustomerRepository, publisher CustomerEventPublisher, logger *slog.Logger) *CustomerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerService{
		repo:      repo,
		validator: NewCustomerValidator(),
		publisher: publisher,
		logger:    logger,
	}
}

// ListCustomers retrieves all customers.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.repo.GetAll(ctx)
}

// FindCustomersByName retrieves the customers whose name equals name exactly.
func (s *CustomerService) FindCustomersByName(ctx context.Context, name string) ([]models.Customer, error) {
	return s.repo.GetByName(ctx, name)
}

// GetCustomer retrieves a single customer by its ID.
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// ValidateCustomer checks customer against the field rules without touching the store.
func (s *CustomerService) ValidateCustomer(customer models.Customer) error {
	return s.validator.Validate(customer)
}

// CreateCustomer persists customer as submitted. Any client-supplied ID is
// discarded and replaced by the one the store assigns.
func (s *CustomerService) CreateCustomer(ctx context.Context, customer *models.Customer, surface Surface) error {
	customer.ID = 0
	if err := s.repo.Create(ctx, customer); err != nil {
		return err
	}
	customersCreatedTotal.WithLabelValues(string(surface)).Inc()
	s.logger.InfoContext(ctx, "Customer created", "customer_id", customer.ID, "surface", surface)
	s.publishCreated(ctx, *customer, surface)
	return nil
}

// CreateValidCustomer validates customer and persists it only if every rule
// holds. A rule violation is returned as a *ValidationError.
func (s *CustomerService) CreateValidCustomer(ctx context.Context, customer *models.Customer, surface Surface) error {
	if err := s.ValidateCustomer(*customer); err != nil {
		return err
	}
	return s.CreateCustomer(ctx, customer, surface)
}

// publishCreated is best effort; failures are logged and never fail the create.
func (s *CustomerService) publishCreated(ctx context.Context, customer models.Customer, surface Surface) {
	if s.publisher == nil {
		return
	}
	event := models.CustomerCreatedEvent{
		EventID:    uuid.NewString(),
		CustomerID: customer.ID,
		Name:       customer.Name,
		Version:    string(surface),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishCustomerCreated(event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish customer created event",
			"customer_id", customer.ID, "error", fmt.Errorf("publish %s: %w", event.EventID, err))
	}
}
