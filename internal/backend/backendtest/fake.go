// Package backendtest provides an in-memory stand-in for the Registrant API.
package backendtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/models"
)

// ErrUnreachable simulates a transport failure.
var ErrUnreachable = errors.New("backend unreachable")

// Fake implements backend.Provider over a slice. Fail* fields inject errors.
type Fake struct {
	mu          sync.Mutex
	Registrants []models.Registrant
	Token       string
	Message     string

	FailList     error
	FailRegister error
	FailLogin    error
	FailUpdate   error
	FailDelete   error

	Calls     map[string]int
	LastToken string
	LastReg   models.NewRegistrant
	LastPatch models.RegistrantPatch
}

var _ backend.Provider = (*Fake)(nil)

// New returns a fake seeded with n registrants named "User 01".."User n".
func New(n int) *Fake {
	f := &Fake{Token: "token-abc", Message: "User registered successfully", Calls: map[string]int{}}
	for i := 1; i <= n; i++ {
		f.Registrants = append(f.Registrants, models.Registrant{
			ID:    fmt.Sprintf("id-%02d", i),
			Name:  fmt.Sprintf("User %02d", i),
			Email: fmt.Sprintf("user%02d@example.com", i),
		})
	}
	return f
}

// CallCount returns how often op was invoked.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[op]
}

// TotalCalls returns the number of backend calls of any kind.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

func (f *Fake) List(ctx context.Context) ([]models.Registrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["list"]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.FailList != nil {
		return nil, f.FailList
	}
	return append([]models.Registrant(nil), f.Registrants...), nil
}

func (f *Fake) Register(ctx context.Context, token string, reg models.NewRegistrant) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["register"]++
	f.LastToken = token
	f.LastReg = reg
	if f.FailRegister != nil {
		return "", f.FailRegister
	}
	f.Registrants = append(f.Registrants, models.Registrant{
		ID:          fmt.Sprintf("id-%02d", len(f.Registrants)+1),
		Name:        reg.Name,
		DateOfBirth: reg.DateOfBirth,
		Email:       reg.Email,
	})
	return f.Message, nil
}

func (f *Fake) Login(ctx context.Context, creds models.Credentials) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["login"]++
	if f.FailLogin != nil {
		return "", f.FailLogin
	}
	return f.Token, nil
}

func (f *Fake) Update(ctx context.Context, id string, patch models.RegistrantPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["update"]++
	f.LastPatch = patch
	if f.FailUpdate != nil {
		return f.FailUpdate
	}
	for i := range f.Registrants {
		if f.Registrants[i].ID == id {
			f.Registrants[i] = patch.Apply(f.Registrants[i])
			return nil
		}
	}
	return &backend.APIError{Status: 404, Message: "Register not found"}
}

func (f *Fake) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["delete"]++
	if f.FailDelete != nil {
		return f.FailDelete
	}
	for i := range f.Registrants {
		if f.Registrants[i].ID == id {
			f.Registrants = append(f.Registrants[:i], f.Registrants[i+1:]...)
			return nil
		}
	}
	return &backend.APIError{Status: 404, Message: "Register not found"}
}
