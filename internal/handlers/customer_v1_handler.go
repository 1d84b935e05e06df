package handlers

import (
	"customerapi/internal/models"
	"customerapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ethanName is the fixed name served by GET /ethan.
const ethanName = "Ethan"

// CustomerV1Handler serves the unvalidated v1 customer routes.
type CustomerV1Handler struct {
	service *services.CustomerService
}

// NewCustomerV1Handler creates a new CustomerV1Handler.
func NewCustomerV1Handler(service *services.CustomerService) *CustomerV1Handler {
	return &CustomerV1Handler{
		service: service,
	}
}

// RegisterRoutes registers the v1 routes on router.
func (h *CustomerV1Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/test", h.HandleTest)
	router.Get("/customers", h.HandleGetCustomers)
	router.Post("/customers", h.HandleCreateCustomer)
	router.Get("/ethan", h.HandleFindEthan)
}

// HandleTest is a liveness probe for the v1 surface.
func (h *CustomerV1Handler) HandleTest(c *fiber.Ctx) error {
	return c.JSON([]string{"Hello"})
}

// HandleGetCustomers returns every stored customer.
func (h *CustomerV1Handler) HandleGetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.ListCustomers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(customers)
}

// HandleCreateCustomer stores the submitted customer without validating any
// field and answers 200 with an empty body.
func (h *CustomerV1Handler) HandleCreateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return invalidBody(c, err)
	}

	if err := h.service.CreateCustomer(c.UserContext(), &customer, services.SurfaceV1); err != nil {
		return err
	}

	c.Status(fiber.StatusOK)
	return nil
}

// HandleFindEthan returns the customers named exactly "Ethan".
func (h *CustomerV1Handler) HandleFindEthan(c *fiber.Ctx) error {
	customers, err := h.service.FindCustomersByName(c.UserContext(), ethanName)
	if err != nil {
		return err
	}
	return c.JSON(customers)
}
