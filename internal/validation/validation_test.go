package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRegister() Values {
	return Values{
		FieldName:        "Ada Lovelace",
		FieldDateOfBirth: "1815-12-10",
		FieldEmail:       "ada@example.com",
		FieldPassword:    "secret1",
	}
}

func TestRegisterAcceptsValidValues(t *testing.T) {
	assert.Empty(t, Register.Validate(validRegister()))
}

func TestRegisterMessages(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  string
	}{
		{FieldName, "", "Name is required"},
		{FieldName, "   ", "Name is required"},
		{FieldDateOfBirth, "", "Date of Birth is required"},
		{FieldDateOfBirth, "10/12/1815", "Date of Birth must be a valid date"},
		{FieldEmail, "", "Email is required"},
		{FieldEmail, "not-an-email", "Invalid email address"},
		{FieldPassword, "", "Password is required"},
		{FieldPassword, "12345", "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			values := validRegister()
			values[tt.field] = tt.value

			errs := Register.Validate(values)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs[tt.field])
		})
	}
}

func TestPasswordMinimumIsInclusive(t *testing.T) {
	msg, ok := Register.ValidateField(FieldPassword, strings.Repeat("x", MinPasswordLength))
	assert.True(t, ok)
	assert.Empty(t, msg)
}

func TestWhitespacePasswordCountsAsInput(t *testing.T) {
	msg, ok := Register.ValidateField(FieldPassword, strings.Repeat(" ", MinPasswordLength))
	assert.True(t, ok, msg)

	msg, ok = Register.ValidateField(FieldPassword, "   ")
	assert.False(t, ok)
	assert.Equal(t, "Password must be at least 6 characters", msg)
}

func TestLoginSchema(t *testing.T) {
	errs := Login.Validate(Values{})
	assert.Equal(t, Errors{FieldEmail: "Email is required", FieldPassword: "Password is required"}, errs)

	// Login has no minimum length.
	assert.Empty(t, Login.Validate(Values{FieldEmail: "a@b.co", FieldPassword: "x"}))
}

func TestEditSchemaIgnoresPassword(t *testing.T) {
	assert.Equal(t, []string{FieldName, FieldDateOfBirth, FieldEmail}, Edit.FieldNames())
	_, ok := Edit.ValidateField(FieldPassword, "")
	assert.True(t, ok)
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("register")
	assert.True(t, ok)
	assert.Equal(t, "register", s.Name)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
