package forms

import (
	"context"
	"fmt"

	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/validation"
)

// DashboardPath is where both forms navigate after success.
const DashboardPath = "/dashboard"

// NewRegister builds the registration form. token returns the current session token,
// or "" when the browser has not logged in.
func NewRegister(api backend.Provider, token func() string) *Form {
	submit := func(ctx context.Context, values validation.Values) (string, error) {
		dob, err := models.ParseDate(values[validation.FieldDateOfBirth])
		if err != nil {
			return "", fmt.Errorf("parse date of birth: %w", err)
		}
		return api.Register(ctx, token(), models.NewRegistrant{
			Name:        values[validation.FieldName],
			DateOfBirth: dob,
			Email:       values[validation.FieldEmail],
			Password:    values[validation.FieldPassword],
		})
	}
	return New(validation.Register, submit, DashboardPath)
}
