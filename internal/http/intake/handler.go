// Package intake exposes the public submission endpoints: a JSON API for
// programmatic callers and a form handler backing the embedded capture page.
package intake

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/leadserver/internal/customer"
)

type Handler struct {
	CustomerService *customer.Service
}

func NewHandler(c *customer.Service) *Handler {
	return &Handler{CustomerService: c}
}

// POST /customers
func (h *Handler) CreateCustomer(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	created, err := h.CustomerService.Create(c.Request().Context(), &customer.CreateInput{
		Identity: req.Identity,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return writeCreateError(c, err)
	}

	return c.JSON(http.StatusCreated, toResponse(created))
}

// POST /intake
//
// Form-encoded submission from the embedded capture page. On success the
// browser is sent back to the site.
func (h *Handler) IntakeForm(c echo.Context) error {
	in := &customer.CreateInput{
		Identity: c.FormValue("identity"),
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone"),
	}

	if _, err := h.CustomerService.Create(c.Request().Context(), in); err != nil {
		return writeCreateError(c, err)
	}

	return c.Redirect(http.StatusFound, "/site/")
}

// writeCreateError maps store errors onto HTTP statuses. Duplicate identity
// and validation failures are caller errors, not server faults.
func writeCreateError(c echo.Context, err error) error {
	if errors.Is(err, customer.ErrDuplicateIdentity) {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "customer with this identity already exists",
		})
	}

	var ve *customer.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": ve.Error(),
		})
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "could not save customer",
	})
}

func toResponse(cu *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		Identity:  cu.Identity,
		Name:      cu.Name,
		Email:     cu.Email,
		Phone:     cu.Phone,
		CreatedAt: cu.CreatedAt,
	}
}
