// Package tui drives the user form and list from a terminal using survey
// prompts.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/userform"
)

// Prompter asks for form values and menu choices through a PromptDriver.
type Prompter struct {
	driver PromptDriver
	out    io.Writer
	theme  Theme
}

// New builds a prompter. Without WithPromptDriver it uses survey on the
// real terminal.
func New(opts ...Option) *Prompter {
	p := &Prompter{out: os.Stdout, theme: DefaultTheme}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.driver == nil {
		p.driver = NewSurveyDriver(p.out)
	}
	return p
}

// RunForm prompts every field of an open form, using the current value as the
// default. Invalid answers print the field's message and ask again. Once all
// fields are valid the operator confirms the save; declining closes the form
// and returns false.
func (p *Prompter) RunForm(ctx context.Context, form *userform.Form) (model.User, bool, error) {
	if !form.IsOpen() {
		form.Open(nil)
	}
	if err := p.info(ctx, form.Title()); err != nil {
		return model.User{}, false, err
	}

	for _, field := range form.Fields() {
		for {
			answer, err := p.driver.Input(ctx, InputConfig{
				Message: fieldMessage(field),
				Default: form.Value(field.Name),
				Help:    plainText(field.Help),
			})
			if err != nil {
				return model.User{}, false, err
			}
			msg := form.Change(field.Name, strings.TrimSpace(answer))
			if msg == "" {
				break
			}
			if err := p.fail(ctx, field.Label+": "+msg); err != nil {
				return model.User{}, false, err
			}
		}
	}

	save, err := p.driver.Confirm(ctx, ConfirmConfig{Message: "Save user?", Default: true})
	if err != nil {
		return model.User{}, false, err
	}
	if !save {
		form.Close()
		return model.User{}, false, nil
	}

	user, ok := form.Save()
	if !ok {
		for _, name := range form.Errors().Fields() {
			if err := p.fail(ctx, name+": "+form.Error(name)); err != nil {
				return model.User{}, false, err
			}
		}
		return model.User{}, false, nil
	}
	return user, true, nil
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return p.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def})
}

// Notify prints an informational message.
func (p *Prompter) Notify(ctx context.Context, message string) error {
	return p.info(ctx, message)
}

// Fail prints err with the error prefix.
func (p *Prompter) Fail(ctx context.Context, err error) error {
	return p.fail(ctx, err.Error())
}

// Output is the writer tables are printed to.
func (p *Prompter) Output() io.Writer { return p.out }

func (p *Prompter) info(ctx context.Context, message string) error {
	return p.driver.Info(ctx, p.theme.InfoPrefix+message)
}

func (p *Prompter) fail(ctx context.Context, message string) error {
	return p.driver.Info(ctx, p.theme.ErrorPrefix+message)
}

func fieldMessage(field model.Field) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// plainText strips markup from help text for terminal display.
func plainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return strings.Join(strings.Fields(plainPolicy.Sanitize(html)), " ")
}

func describe(user model.User) string {
	return fmt.Sprintf("%s <%s>", user.FullName(), user.Email)
}
