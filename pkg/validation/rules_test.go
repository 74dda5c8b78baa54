package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-usermgmt/pkg/fields"
	"github.com/goliatone/go-usermgmt/pkg/model"
)

func TestValidateFieldRequired(t *testing.T) {
	reg := fields.UserForm()
	for _, value := range []any{"", "   ", nil} {
		if got := ValidateField(reg, "firstName", value); got != MsgRequired {
			t.Fatalf("ValidateField(firstName, %#v) = %q", value, got)
		}
	}
	if got := ValidateField(reg, "firstName", "Ada"); got != "" {
		t.Fatalf("expected valid first name, got %q", got)
	}
}

func TestValidateFieldEmail(t *testing.T) {
	reg := fields.UserForm()
	cases := map[string]string{
		"a@b":            MsgEmail,
		"a@b.com":        "",
		"a b@c.com":      MsgEmail,
		"a@@b.com":       MsgEmail,
		" a@b.com  ":     "",
		"user@x.co.in":   "",
		"a\u00a0b@c.com": MsgEmail,
		"a@b\u2003c.com": MsgEmail,
		"a@b.c\u3000om":  MsgEmail,
		"a\u2028b@c.com": MsgEmail,
		"a@b\ufeff.com":  MsgEmail,
		"a\vb@c.com":     MsgEmail,
		"a@b.com\u00a0":  "",
	}
	for input, want := range cases {
		if got := ValidateField(reg, "email", input); got != want {
			t.Errorf("email %q: got %q want %q", input, got, want)
		}
	}
}

func TestValidateFieldPhone(t *testing.T) {
	reg := fields.UserForm()
	cases := map[string]string{
		"9876543210":    "",
		"98765-43210":   "",
		"98765 43210":   "",
		"987-654-3210":  "",
		"98765-4321":    MsgPhone,
		"98765 432100":  MsgPhone,
		"1234567890":    MsgPhone,
		"98765432100":   MsgPhone,
		"987654321":     MsgPhone,
		"98765a3210":    MsgPhone,
		"+919876543210": MsgPhone,
		"-9876543210":   MsgPhone,
	}
	for input, want := range cases {
		if got := ValidateField(reg, "phone", input); got != want {
			t.Errorf("phone %q: got %q want %q", input, got, want)
		}
	}
	if got := ValidateField(reg, "phone", 9876543210); got != "" {
		t.Errorf("numeric phone should validate, got %q", got)
	}
}

func TestValidateFieldUndeclaredOptional(t *testing.T) {
	if got := ValidateField(fields.UserForm(), "nickname", ""); got != "" {
		t.Fatalf("undeclared field should not be required: %q", got)
	}
}

func TestValidateAllOnlyFailingFields(t *testing.T) {
	errs := ValidateAll(fields.UserForm(), model.FormValues{
		"firstName": "",
		"lastName":  "Lovelace",
		"phone":     "1234567890",
		"email":     "ada@example.com",
	})
	want := model.Errors{"firstName": MsgRequired, "phone": MsgPhone}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if Valid(errs) {
		t.Fatalf("expected invalid")
	}
}

func TestValidateAllMissingValues(t *testing.T) {
	errs := ValidateAll(fields.UserForm(), model.FormValues{})
	if len(errs) != 4 {
		t.Fatalf("expected every required field to fail, got %v", errs)
	}
}

func TestValidateAllValid(t *testing.T) {
	errs := ValidateAll(fields.UserForm(), model.User{
		FirstName: "Ada", LastName: "Lovelace", Phone: "9876543210", Email: "ada@example.com",
	}.Values())
	if !Valid(errs) {
		t.Fatalf("expected valid, got %v", errs)
	}
}
