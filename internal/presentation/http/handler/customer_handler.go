package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/orderdesk-api/internal/application/service"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	exportService   *service.ExportService
	now             func() time.Time
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, exportService *service.ExportService, now func() time.Time) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		exportService:   exportService,
		now:             now,
	}
}

// List handles listing customers with filters, search and sort
func (h *CustomerHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	input, ok := bindListCustomers(c)
	if !ok {
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Customers retrieved successfully", result)
}

// Export streams the filtered customer list as a spreadsheet
func (h *CustomerHandler) Export(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	input, ok := bindListCustomers(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	count, err := h.exportService.ExportCustomers(c.Request.Context(), actor, input, &buf)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("customers-%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("X-Total-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func bindListCustomers(c *gin.Context) (*service.ListCustomersInput, bool) {
	var q request.ListCustomersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	return &service.ListCustomersInput{
		Page:     q.Page,
		PerPage:  q.PerPage,
		Search:   q.Search,
		Status:   q.Status,
		Grade:    q.Grade,
		Industry: q.Industry,
		SortBy:   q.SortBy,
	}, true
}

// Create handles a manual customer entry
func (h *CustomerHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), actor, &service.CreateCustomerInput{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Industry:      req.Industry,
		Source:        req.Source,
		Notes:         req.Notes,
		Birthday:      req.Birthday,
		RenewalDate:   req.RenewalDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a customer by ID
func (h *CustomerHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer's contact fields
func (h *CustomerHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "customer")
	if !ok {
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), actor, &service.UpdateCustomerInput{
		ID:            id,
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Industry:      req.Industry,
		Source:        req.Source,
		Notes:         req.Notes,
		Birthday:      req.Birthday,
		RenewalDate:   req.RenewalDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles removing a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "customer")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer deleted successfully", nil)
}
