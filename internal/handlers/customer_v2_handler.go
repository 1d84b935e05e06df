package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"customerapi/internal/models"
	"customerapi/internal/repositories"
	"customerapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CustomerV2Handler serves the validated v2 customer routes.
type CustomerV2Handler struct {
	service *services.CustomerService
}

// NewCustomerV2Handler creates a new CustomerV2Handler.
func NewCustomerV2Handler(service *services.CustomerService) *CustomerV2Handler {
	return &CustomerV2Handler{
		service: service,
	}
}

// RegisterRoutes registers the v2 routes on router.
func (h *CustomerV2Handler) RegisterRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Get("/", h.HandleGetCustomers)
	customerRoutes.Post("/", h.HandleCreateCustomer)
	customerRoutes.Get("/:id", h.HandleGetCustomerByID)
}

// HandleGetCustomers returns the customers matching the optional name query
// parameter, or every customer when it is absent. An empty name is a filter
// like any other.
func (h *CustomerV2Handler) HandleGetCustomers(c *fiber.Ctx) error {
	var (
		customers []models.Customer
		err       error
	)
	if c.Context().QueryArgs().Has("name") {
		customers, err = h.service.FindCustomersByName(c.UserContext(), c.Query("name"))
	} else {
		customers, err = h.service.ListCustomers(c.UserContext())
	}
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(customers)
}

// HandleCreateCustomer validates the submitted customer before storing it.
// It answers 201 with an empty body, or 400 listing the violated fields.
func (h *CustomerV2Handler) HandleCreateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return invalidBody(c, err)
	}

	err := h.service.CreateValidCustomer(c.UserContext(), &customer, services.SurfaceV2)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  validationErr.Fields,
			})
		}
		return err
	}

	c.Status(fiber.StatusCreated)
	return nil
}

// HandleGetCustomerByID returns a single customer.
func (h *CustomerV2Handler) HandleGetCustomerByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Invalid customer ID %q", c.Params("id")),
		})
	}

	customer, err := h.service.GetCustomer(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrCustomerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Customer with ID %d not found", id),
			})
		}
		return err
	}
	return c.JSON(customer)
}
