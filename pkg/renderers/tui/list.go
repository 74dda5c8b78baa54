package tui

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
)

// MenuAction is a choice in the interactive list menu.
type MenuAction string

const (
	ActionNext    MenuAction = "Next page"
	ActionPrev    MenuAction = "Previous page"
	ActionAdd     MenuAction = "Add user"
	ActionEdit    MenuAction = "Edit user"
	ActionDelete  MenuAction = "Delete user"
	ActionRefresh MenuAction = "Refresh"
	ActionQuit    MenuAction = "Quit"
)

// RenderList prints one page as a table followed by the page indicator.
func RenderList(w io.Writer, page userlist.Page) error {
	if page.Loading {
		_, err := fmt.Fprintln(w, "Loading…")
		return err
	}
	if page.Empty() {
		_, err := fmt.Fprintln(w, userlist.EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tEMAIL\tPHONE\tID")
	offset := (page.Number - 1) * page.Size
	for i, user := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", offset+i+1, user.FullName(), user.Email, user.Phone, user.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if page.ShowPagination() {
		if _, err := fmt.Fprintf(w, "Page %d of %d\n", page.Number, page.TotalPages); err != nil {
			return err
		}
	}
	return nil
}

// RenderList prints page to the prompter output.
func (p *Prompter) RenderList(page userlist.Page) error {
	return RenderList(p.out, page)
}

// ChooseAction offers the actions that apply to page.
func (p *Prompter) ChooseAction(ctx context.Context, page userlist.Page, actions userlist.Actions) (MenuAction, error) {
	actions = userlist.Resolve(actions)

	var options []MenuAction
	if page.HasNext() {
		options = append(options, ActionNext)
	}
	if page.HasPrev() {
		options = append(options, ActionPrev)
	}
	options = append(options, ActionAdd)
	if len(page.Items) > 0 {
		if actions.CanEdit() {
			options = append(options, ActionEdit)
		}
		if actions.CanDelete() {
			options = append(options, ActionDelete)
		}
	}
	options = append(options, ActionRefresh, ActionQuit)

	labels := make([]string, len(options))
	for i, option := range options {
		labels[i] = string(option)
	}
	idx, err := p.driver.Select(ctx, SelectConfig{Message: "What next?", Options: labels, DefaultIndex: 0})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", ErrNoSelection
	}
	return options[idx], nil
}

// ChooseUser asks for one of the users on page.
func (p *Prompter) ChooseUser(ctx context.Context, page userlist.Page, message string) (model.User, error) {
	if len(page.Items) == 0 {
		return model.User{}, ErrNoSelection
	}
	labels := make([]string, len(page.Items))
	for i, user := range page.Items {
		labels[i] = describe(user)
	}
	idx, err := p.driver.Select(ctx, SelectConfig{Message: message, Options: labels, PageSize: len(labels)})
	if err != nil {
		return model.User{}, err
	}
	if idx < 0 || idx >= len(page.Items) {
		return model.User{}, ErrNoSelection
	}
	return page.Items[idx], nil
}
