// Package model holds the persisted entities and the request payloads that
// map onto them.
package model

import (
	"fmt"

	"github.com/deppfellow/user-api/internal/validation"
	"github.com/uptrace/bun"
)

// User is a row of the users table. ID is assigned by the store and never
// changes after creation.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	ID      int64  `bun:"id,pk,autoincrement" json:"id"`
	Name    string `bun:"name,notnull" json:"name"`
	Address string `bun:"address,notnull" json:"address"`
}

// UserRequest is the payload accepted by create and update.
//
// ContactInfo is optional and never persisted. When present, its fields are
// validated as a nested object.
type UserRequest struct {
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
}

// ContactInfo holds the phone numbers a client may attach to a user payload.
type ContactInfo struct {
	MobileNumber string `json:"mobileNumber"`
	Office       string `json:"office"`
	Residence    string `json:"residence,omitempty"`
}

// Validate checks the payload against the user rules.
func (r *UserRequest) Validate(v *validation.Validator) error {
	maxLen := v.Limits().NameMaxLength

	fields := []validation.Field{
		{
			Name:  "name",
			Value: r.Name,
			Rules: []validation.Rule{
				{Tag: "notblank", Message: "Name is required"},
				{Tag: fmt.Sprintf("max=%d", maxLen), Message: fmt.Sprintf("Name must not exceed %d characters", maxLen)},
			},
		},
		{
			Name:  "address",
			Value: r.Address,
			Rules: []validation.Rule{
				{Tag: "notblank", Message: "Address is required"},
			},
		},
	}

	if r.ContactInfo != nil {
		fields = append(fields, validation.Nested("contactInfo", r.ContactInfo.fields()...)...)
	}

	return v.Check(fields...)
}

func (ci *ContactInfo) fields() []validation.Field {
	return []validation.Field{
		{
			Name:  "mobileNumber",
			Value: ci.MobileNumber,
			Rules: []validation.Rule{{Tag: "notblank", Message: "Mobile Number is required"}},
		},
		{
			Name:  "office",
			Value: ci.Office,
			Rules: []validation.Rule{{Tag: "notblank", Message: "Office Contact Number is required"}},
		},
	}
}

// ToUser maps the payload onto a new, unsaved User.
func (r *UserRequest) ToUser() *User {
	return &User{Name: r.Name, Address: r.Address}
}

// Apply overwrites the mutable fields of u with the payload.
func (r *UserRequest) Apply(u *User) {
	u.Name = r.Name
	u.Address = r.Address
}
