package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-usermgmt/pkg/fields"
	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/testsupport"
	"github.com/goliatone/go-usermgmt/pkg/userform"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
	"github.com/goliatone/go-usermgmt/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputConfigs []InputConfig
	selectConfig []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectConfig = append(s.selectConfig, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestRunForm_CreateRepromptsInvalidField(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"Ada", "Lovelace", "12345", "98765 43210", "ada@example.com"},
		confirm: []bool{true},
	}
	var saved []model.User
	form := userform.New(nil,
		userform.WithIDGenerator(func() string { return "usr_draft" }),
		userform.WithOnSave(func(u model.User) { saved = append(saved, u) }),
	)
	p := New(WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))

	user, ok, err := p.RunForm(testsupport.Context(), form)
	if err != nil {
		t.Fatalf("RunForm: %v", err)
	}
	if !ok {
		t.Fatalf("expected save")
	}

	want := model.User{ID: "usr_draft", FirstName: "Ada", LastName: "Lovelace", Phone: "98765 43210", Email: "ada@example.com"}
	if diff := cmp.Diff(want, user); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
	if len(saved) != 1 {
		t.Fatalf("expected OnSave once, got %d", len(saved))
	}
	wantInfo := []string{userform.TitleAdd, DefaultTheme.ErrorPrefix + "Phone: " + validation.MsgPhone}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if form.IsOpen() {
		t.Fatalf("form should close after save")
	}
}

func TestRunForm_EditUsesCurrentValuesAsDefaults(t *testing.T) {
	target := testsupport.ValidUser("usr_1")
	driver := &stubDriver{
		inputs:  []string{"Grace", "Lovelace", "9876543210", "ada@example.com"},
		confirm: []bool{true},
	}
	form := userform.New(nil)
	form.Open(&target)

	user, ok, err := New(WithPromptDriver(driver)).RunForm(testsupport.Context(), form)
	if err != nil || !ok {
		t.Fatalf("RunForm: ok=%v err=%v", ok, err)
	}
	if user.ID != "usr_1" || user.FirstName != "Grace" {
		t.Fatalf("unexpected user %+v", user)
	}

	defaults := make([]string, 0, len(driver.inputConfigs))
	for _, cfg := range driver.inputConfigs {
		defaults = append(defaults, cfg.Default)
	}
	want := []string{"Ada", "Lovelace", "9876543210", "ada@example.com"}
	if diff := cmp.Diff(want, defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if driver.inputConfigs[0].Message != "First Name *" {
		t.Fatalf("unexpected message %q", driver.inputConfigs[0].Message)
	}
	if driver.infoMessages[0] != userform.TitleEdit {
		t.Fatalf("expected edit title, got %q", driver.infoMessages[0])
	}
}

func TestRunForm_DeclineClosesWithoutSaving(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"Ada", "Lovelace", "9876543210", "ada@example.com"},
		confirm: []bool{false},
	}
	called := false
	form := userform.New(nil, userform.WithOnSave(func(model.User) { called = true }))

	_, ok, err := New(WithPromptDriver(driver)).RunForm(testsupport.Context(), form)
	if err != nil {
		t.Fatalf("RunForm: %v", err)
	}
	if ok || called {
		t.Fatalf("expected no save, ok=%v called=%v", ok, called)
	}
	if form.IsOpen() {
		t.Fatalf("form should be closed")
	}
}

func TestRunForm_PropagatesDriverErrors(t *testing.T) {
	driver := &stubDriver{}
	_, _, err := New(WithPromptDriver(driver)).RunForm(testsupport.Context(), userform.New(nil))
	if err == nil || !strings.Contains(err.Error(), "no input scripted") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestRunForm_HelpIsPlainText(t *testing.T) {
	reg, err := fields.UserForm().WithOverrides(map[string]fields.Override{
		model.FieldEmail: {Help: `We <strong>never</strong> share it. <a href="https://example.com">Policy</a>`},
	})
	if err != nil {
		t.Fatalf("WithOverrides: %v", err)
	}
	driver := &stubDriver{
		inputs:  []string{"Ada", "Lovelace", "9876543210", "ada@example.com"},
		confirm: []bool{false},
	}
	if _, _, err := New(WithPromptDriver(driver)).RunForm(testsupport.Context(), userform.New(reg)); err != nil {
		t.Fatalf("RunForm: %v", err)
	}
	if got := driver.inputConfigs[3].Help; got != "We never share it. Policy" {
		t.Fatalf("unexpected help %q", got)
	}
}

func TestRenderList(t *testing.T) {
	users := testsupport.SampleUsers(8)

	var buf bytes.Buffer
	if err := RenderList(&buf, userlist.Paginate(users, 6, 2)); err != nil {
		t.Fatalf("RenderList: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"NAME", users[6].FullName(), users[7].Email, "Page 2 of 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, users[0].Email) {
		t.Fatalf("first page leaked into page 2:\n%s", out)
	}
	if !strings.Contains(out, "7  ") {
		t.Fatalf("expected row numbers to continue across pages:\n%s", out)
	}
}

func TestRenderList_EmptyAndLoading(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderList(&buf, userlist.Paginate(nil, 6, 1)); err != nil {
		t.Fatalf("RenderList: %v", err)
	}
	if strings.TrimSpace(buf.String()) != userlist.EmptyMessage {
		t.Fatalf("unexpected empty output %q", buf.String())
	}

	buf.Reset()
	if err := RenderList(&buf, userlist.Loading(6)); err != nil {
		t.Fatalf("RenderList: %v", err)
	}
	if strings.Contains(buf.String(), userlist.EmptyMessage) {
		t.Fatalf("loading must not show the empty message")
	}
}

func TestChooseAction_OffersApplicableOptions(t *testing.T) {
	page := userlist.Paginate(testsupport.SampleUsers(8), 6, 1)
	driver := &stubDriver{selectIdx: []int{2}}
	actions := userlist.ActionFuncs{
		EditFunc: func(context.Context, model.User) error { return nil },
	}

	got, err := New(WithPromptDriver(driver)).ChooseAction(testsupport.Context(), page, actions)
	if err != nil {
		t.Fatalf("ChooseAction: %v", err)
	}
	if got != ActionEdit {
		t.Fatalf("expected edit, got %q", got)
	}
	want := []string{string(ActionNext), string(ActionAdd), string(ActionEdit), string(ActionRefresh), string(ActionQuit)}
	if diff := cmp.Diff(want, driver.selectConfig[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestChooseAction_ReadOnlyEmptyList(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{-1}}
	_, err := New(WithPromptDriver(driver)).ChooseAction(testsupport.Context(), userlist.Paginate(nil, 6, 1), nil)
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	want := []string{string(ActionAdd), string(ActionRefresh), string(ActionQuit)}
	if diff := cmp.Diff(want, driver.selectConfig[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestChooseUser(t *testing.T) {
	users := testsupport.SampleUsers(3)
	page := userlist.Paginate(users, 6, 1)
	driver := &stubDriver{selectIdx: []int{1}}

	got, err := New(WithPromptDriver(driver)).ChooseUser(testsupport.Context(), page, "Which user?")
	if err != nil {
		t.Fatalf("ChooseUser: %v", err)
	}
	if diff := cmp.Diff(users[1], got); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}

	if _, err := New(WithPromptDriver(&stubDriver{})).ChooseUser(testsupport.Context(), userlist.Paginate(nil, 6, 1), "x"); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}
