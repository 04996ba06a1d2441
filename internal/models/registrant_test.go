package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1990-04-12")
	require.NoError(t, err)
	assert.Equal(t, "1990-04-12", d.String())

	d, err = ParseDate("1990-04-12T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "1990-04-12", d.String())

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("12/04/1990")
	assert.Error(t, err)
}

func TestRegistrantDecodesBackendShape(t *testing.T) {
	raw := `{"_id":"66a1","name":"Ada","dateOfBirth":"1815-12-10T00:00:00.000Z","email":"ada@example.com",
		"createdAt":"2024-07-01T10:00:00Z","updatedAt":"2024-07-02T10:00:00Z","__v":0}`

	var r Registrant
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "66a1", r.ID)
	assert.Equal(t, "1815-12-10", r.DateOfBirth.String())
	assert.True(t, r.Consistent())
}

func TestRegistrantConsistent(t *testing.T) {
	now := time.Now()
	r := Registrant{CreatedAt: now, UpdatedAt: now.Add(-time.Minute)}
	assert.False(t, r.Consistent())

	r.UpdatedAt = now
	assert.True(t, r.Consistent())
}

func TestPatchApplyKeepsIdentity(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := Registrant{ID: "1", Name: "Old", Email: "old@example.com", CreatedAt: created}
	dob, _ := ParseDate("2000-02-02")

	got := RegistrantPatch{Name: "New", DateOfBirth: dob, Email: "new@example.com"}.Apply(r)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "2000-02-02", got.DateOfBirth.String())
	assert.Equal(t, PatchOf(got), RegistrantPatch{Name: "New", DateOfBirth: dob, Email: "new@example.com"})
}

func TestNewRegistrantWireNames(t *testing.T) {
	dob, _ := ParseDate("2001-03-04")
	b, err := json.Marshal(NewRegistrant{Name: "A", DateOfBirth: dob, Email: "a@b.co", Password: "secret"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"A","dateOfBirth":"2001-03-04","email":"a@b.co","password":"secret"}`, string(b))
}

func TestDateDecodeToleratesBadInput(t *testing.T) {
	var r Registrant
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"1","dateOfBirth":"not a date"}`), &r))
	assert.True(t, r.DateOfBirth.IsZero())
	assert.True(t, r.DateOfBirth.Invalid())
	assert.Equal(t, "", r.DateOfBirth.String())

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"2","dateOfBirth":12}`), &r))
	assert.True(t, r.DateOfBirth.Invalid())

	var unset Registrant
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"3","dateOfBirth":null}`), &unset))
	assert.False(t, unset.DateOfBirth.Invalid())
}
