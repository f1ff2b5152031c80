package billing

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/services", h.ListServices)
	api.POST("/services", h.CreateService)
	api.PUT("/services/:id", h.UpdateService)
	api.DELETE("/services/:id", h.DeleteService)

	api.GET("/invoices", h.ListInvoices)
	api.POST("/invoices", h.CreateInvoice)
	api.GET("/invoices/:id", h.GetInvoice)
	api.PUT("/invoices/:id/status", h.UpdateInvoiceStatus)
	api.PATCH("/invoices/:id", h.UpdateInvoiceStatus)
	api.DELETE("/invoices/:id", h.DeleteInvoice)
}

// -- Services --

func (h *Handler) ListServices(c echo.Context) error {
	items, err := h.svc.ListServices(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch services")
	}
	if items == nil {
		items = []*MedicalService{}
	}
	return c.JSON(http.StatusOK, items)
}

// createServiceRequest keeps isActive a pointer so an omitted field defaults
// to true instead of false.
type createServiceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	IsActive    *bool   `json:"isActive"`
}

func (h *Handler) CreateService(c echo.Context) error {
	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to create service")
	}
	m := MedicalService{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := h.svc.CreateService(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to create service")
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Service not found")
	}
	var in ServiceUpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update service")
	}
	m, err := h.svc.UpdateService(c.Request().Context(), id, &in)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Service not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update service")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Service not found")
	}
	deleted, err := h.svc.DeleteService(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete service")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Service not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Service deleted successfully"})
}

// -- Invoices --

// createInvoiceRequest mirrors the client payload: the invoice header and its
// line items travel as separate top-level keys.
type createInvoiceRequest struct {
	Invoice CreateInvoiceInput `json:"invoice"`
	Items   []CreateItemInput  `json:"items"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) ListInvoices(c echo.Context) error {
	items, err := h.svc.ListInvoices(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch invoices")
	}
	if items == nil {
		items = []*InvoiceWithDetails{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
	}
	inv, err := h.svc.GetInvoice(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch invoice")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) CreateInvoice(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to create invoice")
	}
	inv, err := h.svc.CreateInvoice(c.Request().Context(), &req.Invoice, req.Items)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to create invoice")
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) UpdateInvoiceStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
	}
	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update invoice status")
	}
	updated, err := h.svc.UpdateInvoiceStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update invoice status")
	}
	if !updated {
		return echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Invoice status updated successfully"})
}

func (h *Handler) DeleteInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
	}
	deleted, err := h.svc.DeleteInvoice(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete invoice")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Invoice deleted successfully"})
}
