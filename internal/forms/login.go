package forms

import (
	"context"
	"fmt"

	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/validation"
)

// LoginSuccessMessage is shown after a successful login.
const LoginSuccessMessage = "Login successful"

// NewLogin builds the login form. begin persists the returned token in the session
// context; a failure there fails the submission.
func NewLogin(api backend.Provider, begin func(ctx context.Context, token string) error) *Form {
	submit := func(ctx context.Context, values validation.Values) (string, error) {
		token, err := api.Login(ctx, models.Credentials{
			Email:    values[validation.FieldEmail],
			Password: values[validation.FieldPassword],
		})
		if err != nil {
			return "", err
		}
		if err := begin(ctx, token); err != nil {
			return "", fmt.Errorf("begin session: %w", err)
		}
		return LoginSuccessMessage, nil
	}
	return New(validation.Login, submit, DashboardPath)
}
