package userform

import "github.com/goliatone/go-usermgmt/pkg/model"

// Option customises a Form.
type Option func(*Form)

// WithOnSave registers the callback receiving validated records. The callback
// runs before the form closes.
func WithOnSave(fn func(model.User)) Option {
	return func(f *Form) {
		f.onSave = fn
	}
}

// WithIDGenerator overrides the identifier source used for new records.
func WithIDGenerator(fn func() string) Option {
	return func(f *Form) {
		if fn != nil {
			f.newID = fn
		}
	}
}
