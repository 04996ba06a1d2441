package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and in forms.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. The zero value means unset.
type Date struct {
	time.Time
	// raw holds input that did not parse; the date itself stays zero.
	raw string
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := t.UTC().Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

// String formats the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Invalid reports whether the date was decoded from a value that is not a date.
func (d Date) Invalid() bool {
	return d.raw != ""
}

// Raw returns the undecodable input kept by UnmarshalJSON.
func (d Date) Raw() string {
	return d.raw
}

// UnmarshalJSON never fails on a bad date: one malformed record must not hide the
// rest of a list. The result is a zero Date that reports Invalid.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*d = Date{raw: string(b)}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		*d = Date{raw: s}
		return nil
	}
	*d = parsed
	return nil
}

// Registrant is a user record mirrored from the backend.
type Registrant struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	DateOfBirth Date      `json:"dateOfBirth"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Consistent reports whether CreatedAt does not come after UpdatedAt.
func (r Registrant) Consistent() bool {
	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		return true
	}
	return !r.CreatedAt.After(r.UpdatedAt)
}

// RegistrantPatch holds the fields editable from the listing. Password is not one of them.
type RegistrantPatch struct {
	Name        string `json:"name"`
	DateOfBirth Date   `json:"dateOfBirth"`
	Email       string `json:"email"`
}

// PatchOf returns the editable fields of r.
func PatchOf(r Registrant) RegistrantPatch {
	return RegistrantPatch{Name: r.Name, DateOfBirth: r.DateOfBirth, Email: r.Email}
}

// Apply merges the patch over r. Identifier and timestamps are left alone.
func (p RegistrantPatch) Apply(r Registrant) Registrant {
	r.Name = p.Name
	r.DateOfBirth = p.DateOfBirth
	r.Email = p.Email
	return r
}

// NewRegistrant is the registration request body.
type NewRegistrant struct {
	Name        string `json:"name"`
	DateOfBirth Date   `json:"dateOfBirth"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
