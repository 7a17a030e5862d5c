// Package admin exposes the analytical surface: filtered listings, summary
// metrics, the monthly time series, CSV export and database backup. Every
// route sits behind the admin API key gate.
package admin

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/leadserver/internal/backup"
	"winsbygroup.com/leadserver/internal/bling"
	"winsbygroup.com/leadserver/internal/customer"
	"winsbygroup.com/leadserver/internal/export"
	"winsbygroup.com/leadserver/internal/metrics"
	"winsbygroup.com/leadserver/internal/query"
)

type Handler struct {
	customerSvc *customer.Service
	metricsSvc  *metrics.Service
	backupSvc   *backup.Service
	feed        *bling.Client
}

func NewHandler(
	customerSvc *customer.Service,
	metricsSvc *metrics.Service,
	backupSvc *backup.Service,
	feed *bling.Client,
) *Handler {
	return &Handler{
		customerSvc: customerSvc,
		metricsSvc:  metricsSvc,
		backupSvc:   backupSvc,
		feed:        feed,
	}
}

// listFiltered runs the shared listing pipeline: parse filters once, scan
// the store, apply predicates in store order.
func (h *Handler) listFiltered(c echo.Context) ([]customer.Customer, error) {
	f, err := query.Parse(
		c.QueryParam("search"),
		c.QueryParam("start"),
		c.QueryParam("end"),
	)
	if err != nil {
		return nil, err
	}

	records, err := h.customerSvc.GetAll(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return f.Apply(records), nil
}

// GET /customers?search=&start=&end=
func (h *Handler) GetCustomers(c echo.Context) error {
	records, err := h.listFiltered(c)
	if err != nil {
		return writeListError(c, err)
	}

	out := make([]CustomerResponse, len(records))
	for i, r := range records {
		out[i] = CustomerResponse{
			Identity:  r.Identity,
			Name:      r.Name,
			Email:     r.Email,
			Phone:     r.Phone,
			CreatedAt: r.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, out)
}

// GET /customers/export?search=&start=&end=
//
// Streams the filtered record set as a CSV attachment with a fixed
// filename. Rows are written in store order, one at a time.
func (h *Handler) ExportCustomers(c echo.Context) error {
	records, err := h.listFiltered(c)
	if err != nil {
		return writeListError(c, err)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, export.ContentType)
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	resp.WriteHeader(http.StatusOK)

	return export.WriteCSV(resp, records)
}

// GET /metrics
func (h *Handler) GetMetrics(c echo.Context) error {
	out, err := h.metricsSvc.Summary(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "could not compute metrics",
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /metrics/monthly
func (h *Handler) GetMonthlyMetrics(c echo.Context) error {
	out, err := h.metricsSvc.Monthly(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "could not compute monthly series",
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /leads
//
// A dead or misbehaving feed shows up as zero leads, never as an error.
func (h *Handler) GetLeads(c echo.Context) error {
	leads := h.feed.Leads(c.Request().Context())

	out := LeadsResponse{Total: len(leads), Leads: make([]LeadItem, len(leads))}
	for i, l := range leads {
		out.Leads[i] = LeadItem{Name: l.Name, Email: l.Email, Phone: l.Phone}
	}
	return c.JSON(http.StatusOK, out)
}

// POST /backup
func (h *Handler) BackupDatabase(c echo.Context) error {
	result, err := h.backupSvc.Create(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "backup failed",
		})
	}
	return c.JSON(http.StatusOK, result)
}

func writeListError(c echo.Context, err error) error {
	if errors.Is(err, query.ErrInvalidFilter) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "could not list customers",
	})
}
