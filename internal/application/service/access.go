package service

import (
	"time"

	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
)

const dateLayout = "2006-01-02"

func requireStaff(actor entity.Actor) error {
	if !actor.IsStaff() {
		return apperror.NewForbiddenError("CRM access requires a staff role")
	}
	return nil
}

func requireAdmin(actor entity.Actor) error {
	if !actor.IsAdmin() {
		return apperror.NewForbiddenError("This operation requires an admin role")
	}
	return nil
}

// parseOptionalDate parses a YYYY-MM-DD value. An empty string clears the date.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperror.Invalid(field, field+" must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}
