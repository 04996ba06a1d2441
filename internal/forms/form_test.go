package forms

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/backend/backendtest"
	"github.com/isdelr/registrant-portal/internal/validation"
)

func fillRegister(f *Form, password string) {
	f.Fill(validation.Values{
		validation.FieldName:        "Ada Lovelace",
		validation.FieldDateOfBirth: "1815-12-10",
		validation.FieldEmail:       "ada@example.com",
		validation.FieldPassword:    password,
	})
}

func TestErrorsHiddenUntilTouched(t *testing.T) {
	f := NewRegister(backendtest.New(0), func() string { return "" })

	f.Change(validation.FieldEmail, "nope")
	assert.Empty(t, f.Snapshot().Errors)

	f.Blur(validation.FieldEmail)
	assert.Equal(t, validation.Errors{validation.FieldEmail: "Invalid email address"}, f.Snapshot().Errors)

	f.Change(validation.FieldEmail, "ada@example.com")
	assert.Empty(t, f.Snapshot().Errors)
}

func TestRegisterShortPasswordSendsNothing(t *testing.T) {
	api := backendtest.New(0)
	f := NewRegister(api, func() string { return "" })
	fillRegister(f, "12345")

	_, err := f.Submit(context.Background())
	require.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "Password must be at least 6 characters", f.Snapshot().Errors[validation.FieldPassword])
	assert.Equal(t, StateEditing, f.State())
	assert.Zero(t, api.TotalCalls())
}

func TestRegisterSubmitTouchesAllFields(t *testing.T) {
	f := NewRegister(backendtest.New(0), func() string { return "" })
	_, err := f.Submit(context.Background())
	require.ErrorIs(t, err, ErrInvalid)

	errs := f.Snapshot().Errors
	assert.Len(t, errs, 4)
	assert.Equal(t, "Name is required", errs[validation.FieldName])
	assert.Equal(t, "Date of Birth is required", errs[validation.FieldDateOfBirth])
}

func TestRegisterSuccessForwardsToken(t *testing.T) {
	api := backendtest.New(0)
	f := NewRegister(api, func() string { return "tok" })
	fillRegister(f, "secret1")

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", res.Message)
	assert.Equal(t, DashboardPath, res.Redirect)
	assert.Equal(t, StateSuccess, f.State())
	assert.Equal(t, "tok", api.LastToken)
	assert.Equal(t, "1815-12-10", api.LastReg.DateOfBirth.String())
}

func TestRegisterBackendFailureReturnsToEditing(t *testing.T) {
	api := backendtest.New(0)
	api.FailRegister = &backend.APIError{Status: 409, Message: "Email already exists"}
	f := NewRegister(api, func() string { return "" })
	fillRegister(f, "secret1")

	res, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Email already exists", res.Message)
	assert.Empty(t, res.Redirect)
	assert.Equal(t, StateEditing, f.State())

	api.FailRegister = backendtest.ErrUnreachable
	res, err = f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, backend.FallbackMessage, res.Message)
}

func TestLoginBeginsSessionOnce(t *testing.T) {
	api := backendtest.New(0)
	var tokens []string
	f := NewLogin(api, func(ctx context.Context, token string) error {
		tokens = append(tokens, token)
		return nil
	})
	f.Fill(validation.Values{validation.FieldEmail: "ada@example.com", validation.FieldPassword: "x"})

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoginSuccessMessage, res.Message)
	assert.Equal(t, DashboardPath, res.Redirect)
	assert.Equal(t, []string{"token-abc"}, tokens)
}

func TestLoginFailureDoesNotBeginSession(t *testing.T) {
	api := backendtest.New(0)
	api.FailLogin = &backend.APIError{Status: 401, Message: "Invalid credentials"}
	called := false
	f := NewLogin(api, func(ctx context.Context, token string) error {
		called = true
		return nil
	})
	f.Fill(validation.Values{validation.FieldEmail: "ada@example.com", validation.FieldPassword: "x"})

	res, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", res.Message)
	assert.False(t, called)
}

func TestLoginSessionFailureFailsSubmit(t *testing.T) {
	f := NewLogin(backendtest.New(0), func(ctx context.Context, token string) error {
		return errors.New("disk full")
	})
	f.Fill(validation.Values{validation.FieldEmail: "ada@example.com", validation.FieldPassword: "x"})

	res, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, backend.FallbackMessage, res.Message)
	assert.Equal(t, StateEditing, f.State())
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	f := New(validation.Login, func(ctx context.Context, values validation.Values) (string, error) {
		close(entered)
		<-release
		return "ok", nil
	}, "/next")
	f.Fill(validation.Values{validation.FieldEmail: "ada@example.com", validation.FieldPassword: "x"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.Submit(context.Background())
		assert.NoError(t, err)
	}()

	<-entered
	assert.Equal(t, StateSubmitting, f.State())
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitting)

	close(release)
	wg.Wait()
	assert.Equal(t, StateSuccess, f.State())
}
