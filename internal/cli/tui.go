package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/query"
	"github.com/goliatone/go-usermgmt/pkg/renderers/tui"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
)

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit users interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.loop(cmd.Context(), cmd.OutOrStdout())
			if errors.Is(err, tui.ErrAborted) {
				return nil
			}
			return err
		},
	}
}

// loop shows a page and asks what to do until the operator quits. Failed
// mutations are reported and the loop continues.
func (a *app) loop(ctx context.Context, out io.Writer) error {
	number := 1
	for {
		page, err := a.page(ctx, out, number, false)
		if err != nil {
			if ferr := a.prompter.Fail(ctx, err); ferr != nil {
				return ferr
			}
			page = userlist.Paginate(nil, a.cfg.UI.PageSize, 1)
		}
		number = page.Number
		if err := a.prompter.RenderList(page); err != nil {
			return err
		}

		actions := userlist.ActionFuncs{
			EditFunc: func(ctx context.Context, user model.User) error {
				return a.editUser(ctx, out, &user)
			},
			DeleteFunc: func(ctx context.Context, id string) error {
				user, err := a.find(ctx, id)
				if err != nil {
					return err
				}
				return a.deleteUser(ctx, out, user, false)
			},
		}

		choice, err := a.prompter.ChooseAction(ctx, page, actions)
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case tui.ActionQuit:
			return nil
		case tui.ActionNext:
			number++
		case tui.ActionPrev:
			number--
		case tui.ActionRefresh:
			a.users.Cache().Invalidate(query.UsersKey)
		case tui.ActionAdd:
			actionErr = a.editUser(ctx, out, nil)
		case tui.ActionEdit:
			user, err := a.prompter.ChooseUser(ctx, page, "Edit which user?")
			if err != nil {
				return err
			}
			actionErr = actions.Edit(ctx, user)
		case tui.ActionDelete:
			user, err := a.prompter.ChooseUser(ctx, page, "Delete which user?")
			if err != nil {
				return err
			}
			actionErr = actions.Delete(ctx, user.ID)
		}
		if actionErr != nil {
			if errors.Is(actionErr, tui.ErrAborted) {
				return actionErr
			}
			if err := a.prompter.Fail(ctx, actionErr); err != nil {
				return err
			}
		}
	}
}
