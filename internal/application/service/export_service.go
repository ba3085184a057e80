package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/xuri/excelize/v2"
)

const customerSheet = "Customers"

var customerExportHeader = []interface{}{
	"Company", "Contact", "Email", "Phone", "Industry", "Source",
	"Grade", "Status", "Total Orders", "Total Amount",
	"First Order", "Last Order", "Last Interaction",
}

// ExportService renders CRM data as spreadsheets
type ExportService struct {
	customerRepo repository.CustomerRepository
}

// NewExportService creates a new export service
func NewExportService(customerRepo repository.CustomerRepository) *ExportService {
	return &ExportService{customerRepo: customerRepo}
}

// ExportCustomers writes every customer matching the filters to w as an XLSX workbook
func (s *ExportService) ExportCustomers(ctx context.Context, actor entity.Actor, input *ListCustomersInput, w io.Writer) (int, error) {
	if err := requireStaff(actor); err != nil {
		return 0, err
	}
	params, err := input.filterParams()
	if err != nil {
		return 0, err
	}

	customers, _, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to list customers: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", customerSheet); err != nil {
		return 0, err
	}
	header := customerExportHeader
	if err := f.SetSheetRow(customerSheet, "A1", &header); err != nil {
		return 0, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, err
	}
	if err := f.SetRowStyle(customerSheet, 1, 1, bold); err != nil {
		return 0, err
	}
	if err := f.SetColWidth(customerSheet, "A", "M", 18); err != nil {
		return 0, err
	}

	for i := range customers {
		c := &customers[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []interface{}{
			c.CompanyName, c.ContactPerson, stringValue(c.Email), c.Phone, c.Industry, c.Source,
			string(c.Grade), string(c.Status), c.TotalOrders, float64(c.TotalAmount) / 100,
			dateValue(c.FirstOrderDate), dateValue(c.LastOrderDate), dateValue(c.LastInteractionDate),
		}
		if err := f.SetSheetRow(customerSheet, cell, &row); err != nil {
			return 0, err
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(customers), nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateValue(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
