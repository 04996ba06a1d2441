package validation

// Field names shared by the forms and the edit modal.
const (
	FieldName        = "name"
	FieldDateOfBirth = "dateOfBirth"
	FieldEmail       = "email"
	FieldPassword    = "password"
)

// MinPasswordLength is the shortest password the registration form accepts.
const MinPasswordLength = 6

var nameField = Field{Name: FieldName, Rules: []Rule{
	{Tag: "notblank", Message: "Name is required"},
}}

var dateOfBirthField = Field{Name: FieldDateOfBirth, Rules: []Rule{
	{Tag: "required", Message: "Date of Birth is required"},
	{Tag: "datetime=2006-01-02", Message: "Date of Birth must be a valid date"},
}}

var emailField = Field{Name: FieldEmail, Rules: []Rule{
	{Tag: "required", Message: "Email is required"},
	{Tag: "email", Message: "Invalid email address"},
}}

// Register is the registration form schema.
var Register = Schema{Name: "register", Fields: []Field{
	nameField,
	dateOfBirthField,
	emailField,
	{Name: FieldPassword, Rules: []Rule{
		{Tag: "required", Message: "Password is required"},
		{Tag: "min=6", Message: "Password must be at least 6 characters"},
	}},
}}

// Login is the login form schema.
var Login = Schema{Name: "login", Fields: []Field{
	emailField,
	{Name: FieldPassword, Rules: []Rule{
		{Tag: "required", Message: "Password is required"},
	}},
}}

// Edit is the schema of the listing's edit modal. Password is not editable there.
var Edit = Schema{Name: "edit", Fields: []Field{
	nameField,
	dateOfBirthField,
	emailField,
}}

// Lookup returns a schema by name.
func Lookup(name string) (Schema, bool) {
	switch name {
	case Register.Name:
		return Register, true
	case Login.Name:
		return Login, true
	case Edit.Name:
		return Edit, true
	}
	return Schema{}, false
}
