// Package validation evaluates declarative field-rule tables.
//
// A Schema lists fields in display order. Each field carries validator/v10 tag rules
// and the message shown for each rule. Evaluation reports at most one message per
// field, preferring the required rule.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Rule is a single validator tag with its user-visible message.
type Rule struct {
	Tag     string // e.g. "required", "email", "min=6", "datetime=2006-01-02"
	Message string
}

// Field is one row of a schema.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is an ordered table of field rules.
type Schema struct {
	Name   string
	Fields []Field
}

// Values maps field names to raw form input.
type Values map[string]string

// Errors maps field names to their first failing message.
type Errors map[string]string

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// FieldNames returns the field names the schema declares.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Field returns the named field definition.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate evaluates every field of the schema against values.
func (s Schema) Validate(values Values) Errors {
	errs := Errors{}
	for _, f := range s.Fields {
		if msg, ok := f.Check(values[f.Name]); !ok {
			errs[f.Name] = msg
		}
	}
	return errs
}

// ValidateField evaluates a single field. Unknown fields are valid.
func (s Schema) ValidateField(name, value string) (string, bool) {
	f, ok := s.Field(name)
	if !ok {
		return "", true
	}
	return f.Check(value)
}

// Check runs the field's rules in order. Empty optional values skip the remaining rules.
// "required" only rejects the empty string; "notblank" also rejects whitespace.
func (f Field) Check(value string) (string, bool) {
	for _, r := range f.Rules {
		isRequired := r.Tag == "required" || r.Tag == "notblank"
		if value == "" && !isRequired {
			// Format rules only apply once there is something to check.
			continue
		}
		if err := defaultValidator.Var(value, r.Tag); err != nil {
			return r.Message, false
		}
	}
	return "", true
}
