package formstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

func TestHandleChangeMergesSingleField(t *testing.T) {
	state := New(model.FormValues{"firstName": "", "email": ""})
	state.HandleChange("firstName", "Ada")

	want := model.FormValues{"firstName": "Ada", "email": ""}
	if diff := cmp.Diff(want, state.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if state.String("firstName") != "Ada" {
		t.Fatalf("String mismatch: %q", state.String("firstName"))
	}
}

func TestResetRestoresInitialDespiteCallerMutation(t *testing.T) {
	initial := model.FormValues{"firstName": ""}
	state := New(initial)
	initial["firstName"] = "leaked"

	state.HandleChange("firstName", "Ada")
	state.Reset()

	if diff := cmp.Diff(model.FormValues{"firstName": ""}, state.Values()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValuesReplacesMap(t *testing.T) {
	state := New(model.FormValues{"firstName": "", "lastName": ""})
	state.SetValues(model.FormValues{"phone": "9876543210"})

	if _, ok := state.Value("firstName"); ok {
		t.Fatalf("SetValues should replace, not merge")
	}
	if got := state.String("phone"); got != "9876543210" {
		t.Fatalf("phone = %q", got)
	}
}

func TestValuesSnapshotIsDetached(t *testing.T) {
	state := New(model.FormValues{"email": "a@b.com"})
	snapshot := state.Values()
	snapshot["email"] = "changed"
	if state.String("email") != "a@b.com" {
		t.Fatalf("snapshot mutation leaked into state")
	}
}

func TestNilStateIsInert(t *testing.T) {
	var state *State
	state.HandleChange("x", 1)
	state.Reset()
	if len(state.Values()) != 0 {
		t.Fatalf("nil state should report no values")
	}
}
