package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/renderers/tui"
	"github.com/goliatone/go-usermgmt/pkg/userform"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List, add, edit and delete users",
	}

	var (
		page    int
		compact bool
		yes     bool
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "Print one page of users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.page(cmd.Context(), cmd.OutOrStdout(), page, compact)
			if err != nil {
				return err
			}
			return tui.RenderList(cmd.OutOrStdout(), p)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().BoolVar(&compact, "compact", false, "use the compact page size")

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a user interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.editUser(cmd.Context(), cmd.OutOrStdout(), nil)
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a user interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.editUser(cmd.Context(), cmd.OutOrStdout(), &user)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.deleteUser(cmd.Context(), cmd.OutOrStdout(), user, yes)
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(list, add, edit, del)
	return cmd
}

func (a *app) page(ctx context.Context, out io.Writer, number int, compact bool) (userlist.Page, error) {
	users, err := a.users.List(ctx)
	if err != nil {
		return userlist.Page{}, fmt.Errorf("cli: list users: %w", err)
	}
	return userlist.Paginate(users, a.pageSize(out, compact), number), nil
}

func (a *app) find(ctx context.Context, id string) (model.User, error) {
	user, ok, err := a.users.Find(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("cli: list users: %w", err)
	}
	if !ok {
		return model.User{}, fmt.Errorf("cli: user %q not found", id)
	}
	return user, nil
}

// editUser runs the form for target, or a new user when target is nil, and
// saves the result.
func (a *app) editUser(ctx context.Context, out io.Writer, target *model.User) error {
	form := userform.New(a.registry)
	form.Open(target)

	user, ok, err := a.prompter.RunForm(ctx, form)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	saved, err := a.users.Save(ctx, user, target != nil)
	if err != nil {
		return fmt.Errorf("cli: save user: %w", err)
	}
	verb := "Created"
	if target != nil {
		verb = "Updated"
	}
	fmt.Fprintf(out, "%s %s (%s)\n", verb, saved.FullName(), saved.ID)
	return nil
}

func (a *app) deleteUser(ctx context.Context, out io.Writer, user model.User, yes bool) error {
	if !yes {
		confirmed, err := a.prompter.Confirm(ctx, fmt.Sprintf("Delete %s?", user.FullName()), false)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
	}
	if err := a.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("cli: delete user: %w", err)
	}
	fmt.Fprintf(out, "Deleted %s (%s)\n", user.FullName(), user.ID)
	return nil
}
