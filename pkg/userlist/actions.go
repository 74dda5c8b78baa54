package userlist

import (
	"context"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

// Actions are the row-level intents a list exposes. Capabilities are explicit
// so renderers omit controls that would do nothing.
type Actions interface {
	CanEdit() bool
	CanDelete() bool
	Edit(ctx context.Context, user model.User) error
	Delete(ctx context.Context, id string) error
}

// ActionFuncs adapts plain functions to Actions. A nil func disables that
// capability and invoking it is a no-op.
type ActionFuncs struct {
	EditFunc   func(ctx context.Context, user model.User) error
	DeleteFunc func(ctx context.Context, id string) error
}

func (a ActionFuncs) CanEdit() bool   { return a.EditFunc != nil }
func (a ActionFuncs) CanDelete() bool { return a.DeleteFunc != nil }

func (a ActionFuncs) Edit(ctx context.Context, user model.User) error {
	if a.EditFunc == nil {
		return nil
	}
	return a.EditFunc(ctx, user)
}

func (a ActionFuncs) Delete(ctx context.Context, id string) error {
	if a.DeleteFunc == nil {
		return nil
	}
	return a.DeleteFunc(ctx, id)
}

type noActions struct{}

func (noActions) CanEdit() bool                          { return false }
func (noActions) CanDelete() bool                        { return false }
func (noActions) Edit(context.Context, model.User) error { return nil }
func (noActions) Delete(context.Context, string) error   { return nil }

// NoActions renders a read-only list.
var NoActions Actions = noActions{}

// Resolve returns actions, or NoActions when nil.
func Resolve(actions Actions) Actions {
	if actions == nil {
		return NoActions
	}
	return actions
}
