// Package testsupport holds fixtures and fakes shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

var firstNames = []string{"Aarav", "Diya", "Ishaan", "Kavya", "Rohan", "Saanvi", "Vihaan", "Ananya"}

var lastNames = []string{"Sharma", "Iyer", "Patel", "Reddy", "Nair", "Gupta", "Mehta", "Das"}

// SampleUsers returns n deterministic, valid users with ids usr_fixture00,
// usr_fixture01 and so on.
func SampleUsers(n int) []model.User {
	out := make([]model.User, n)
	for i := range out {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames)+i)%len(lastNames)]
		out[i] = model.User{
			ID:        fmt.Sprintf("usr_fixture%02d", i),
			FirstName: first,
			LastName:  last,
			Phone:     fmt.Sprintf("98765%05d", i),
			Email:     fmt.Sprintf("user%02d@example.com", i),
		}
	}
	return out
}

// ValidUser returns a record passing every form rule.
func ValidUser(id string) model.User {
	return model.User{
		ID:        id,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "9876543210",
		Email:     "ada@example.com",
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
