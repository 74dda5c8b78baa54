package model

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Editable user field names, in display order.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldPhone     = "phone"
	FieldEmail     = "email"
)

// UserIDPrefix prefixes every locally generated identifier.
const UserIDPrefix = "usr_"

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 12
)

// User is the record exchanged with the REST collaborator. Absent JSON
// attributes decode to empty strings.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// UserInput is the request body for create and update calls.
type UserInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// FullName joins the first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Input strips the identifier.
func (u User) Input() UserInput {
	return UserInput{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Email:     u.Email,
	}
}

// Values returns the editable attributes keyed by field name. The id is never
// part of the form values.
func (u User) Values() FormValues {
	return FormValues{
		FieldFirstName: u.FirstName,
		FieldLastName:  u.LastName,
		FieldPhone:     u.Phone,
		FieldEmail:     u.Email,
	}
}

// WithID returns the input as a full record carrying id.
func (in UserInput) WithID(id string) User {
	return User{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Email:     in.Email,
	}
}

// UserFromValues assembles a record from form values. Values are trimmed
// the same way validation trims them, so the record holds exactly what was
// checked: "  ada@example.com " is stored as "ada@example.com".
func UserFromValues(id string, values FormValues) User {
	return User{
		ID:        id,
		FirstName: strings.TrimSpace(values.String(FieldFirstName)),
		LastName:  strings.TrimSpace(values.String(FieldLastName)),
		Phone:     strings.TrimSpace(values.String(FieldPhone)),
		Email:     strings.TrimSpace(values.String(FieldEmail)),
	}
}

// NewUserID returns a fresh identifier of the form usr_[a-z0-9]{12}. It panics
// if the system random source fails.
func NewUserID() string {
	var b strings.Builder
	b.Grow(len(UserIDPrefix) + idLength)
	b.WriteString(UserIDPrefix)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < idLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("model: read random id: " + err.Error())
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return b.String()
}
