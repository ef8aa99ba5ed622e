// Package form implements the "Add User" dialog of the admin console: the
// field registry, its validation rules and the submission state machine.
package form

import "admin-console/internal/api"

// FieldName identifies a dialog field; it doubles as the HTML input name.
type FieldName string

const (
	FieldEmail           FieldName = "email"
	FieldFullName        FieldName = "full_name"
	FieldPassword        FieldName = "password"
	FieldConfirmPassword FieldName = "confirm_password"
	FieldIsSuperuser     FieldName = "is_superuser"
	FieldIsActive        FieldName = "is_active"
)

// Spec describes how a field is rendered and validated.
type Spec struct {
	Name        FieldName
	Label       string
	Placeholder string
	InputType   string
	Required    bool
	Rules       []Rule
}

// Checkbox reports whether the field holds a boolean.
func (s Spec) Checkbox() bool {
	return s.InputType == "checkbox"
}

// Specs lists every field in display order.
var Specs = []Spec{
	{
		Name: FieldEmail, Label: "Email", Placeholder: "Email", InputType: "email", Required: true,
		Rules: []Rule{
			{Tag: "required", Message: "Email is required"},
			{Tag: emailTag, Message: "Invalid email address"},
		},
	},
	{Name: FieldFullName, Label: "Full name", Placeholder: "Full name", InputType: "text"},
	{
		Name: FieldPassword, Label: "Set Password", Placeholder: "Password", InputType: "password", Required: true,
		Rules: []Rule{
			{Tag: "required", Message: "Password is required"},
			{Tag: minLenTag + "=8", Message: "Password must be at least 8 characters"},
		},
	},
	{
		Name: FieldConfirmPassword, Label: "Confirm Password", Placeholder: "Password", InputType: "password", Required: true,
		Rules: []Rule{
			{Tag: "required", Message: "Please confirm your password"},
			{Tag: "eqcsfield", Message: "The passwords do not match", Against: FieldPassword},
		},
	},
	{Name: FieldIsSuperuser, Label: "Is superuser?", InputType: "checkbox"},
	{Name: FieldIsActive, Label: "Is active?", InputType: "checkbox"},
}

var specIndex = func() map[FieldName]Spec {
	m := make(map[FieldName]Spec, len(Specs))
	for _, s := range Specs {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the spec registered under name.
func Lookup(name FieldName) (Spec, bool) {
	s, ok := specIndex[name]
	return s, ok
}

// Values is the flat record edited by the dialog. The zero value holds the
// defaults.
type Values struct {
	Email           string `schema:"email"`
	FullName        string `schema:"full_name"`
	Password        string `schema:"password"`
	ConfirmPassword string `schema:"confirm_password"`
	IsSuperuser     bool   `schema:"is_superuser"`
	IsActive        bool   `schema:"is_active"`
}

// Text returns the value of a text field, or "" for checkboxes and unknown
// names.
func (v Values) Text(name FieldName) string {
	switch name {
	case FieldEmail:
		return v.Email
	case FieldFullName:
		return v.FullName
	case FieldPassword:
		return v.Password
	case FieldConfirmPassword:
		return v.ConfirmPassword
	}
	return ""
}

// Flag returns the value of a checkbox field.
func (v Values) Flag(name FieldName) bool {
	switch name {
	case FieldIsSuperuser:
		return v.IsSuperuser
	case FieldIsActive:
		return v.IsActive
	}
	return false
}

func (v *Values) setText(name FieldName, s string) error {
	switch name {
	case FieldEmail:
		v.Email = s
	case FieldFullName:
		v.FullName = s
	case FieldPassword:
		v.Password = s
	case FieldConfirmPassword:
		v.ConfirmPassword = s
	default:
		return ErrUnknownField
	}
	return nil
}

func (v *Values) setFlag(name FieldName, b bool) error {
	switch name {
	case FieldIsSuperuser:
		v.IsSuperuser = b
	case FieldIsActive:
		v.IsActive = b
	default:
		return ErrUnknownField
	}
	return nil
}

// Request builds the payload for the users API. The confirmation is dropped
// here so it never reaches the transport.
func (v Values) Request() api.UserCreate {
	return api.UserCreate{
		Email:       v.Email,
		FullName:    v.FullName,
		Password:    v.Password,
		IsSuperuser: v.IsSuperuser,
		IsActive:    v.IsActive,
	}
}

// Field is the render view of one field.
type Field struct {
	Spec
	Value   string
	Checked bool
	Error   string
}
