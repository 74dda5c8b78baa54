package vanilla

// ChromeClass names a semantic CSS class hook emitted by the templates.
type ChromeClass string

const (
	ClassField         ChromeClass = "field"
	ClassFieldInvalid  ChromeClass = "field_invalid"
	ClassFieldError    ChromeClass = "field_error"
	ClassFieldHelp     ChromeClass = "field_help"
	ClassBackdrop      ChromeClass = "backdrop"
	ClassModal         ChromeClass = "modal"
	ClassModalHeader   ChromeClass = "modal_header"
	ClassModalBody     ChromeClass = "modal_body"
	ClassActions       ChromeClass = "actions"
	ClassAlert         ChromeClass = "alert"
	ClassButtonPrimary ChromeClass = "button_primary"
	ClassButtonSecond  ChromeClass = "button_secondary"
	ClassButtonDanger  ChromeClass = "button_danger"
	ClassButtonIcon    ChromeClass = "button_icon"
	ClassList          ChromeClass = "list"
	ClassRows          ChromeClass = "rows"
	ClassRow           ChromeClass = "row"
	ClassAvatar        ChromeClass = "avatar"
	ClassRowBody       ChromeClass = "row_body"
	ClassRowActions    ChromeClass = "row_actions"
	ClassEmpty         ChromeClass = "empty"
	ClassSpinner       ChromeClass = "spinner"
	ClassPagination    ChromeClass = "pagination"
)

var defaultClasses = map[ChromeClass]string{
	ClassField:         "um-field",
	ClassFieldInvalid:  "um-field--invalid",
	ClassFieldError:    "um-field__error",
	ClassFieldHelp:     "um-field__help",
	ClassBackdrop:      "um-backdrop",
	ClassModal:         "um-modal",
	ClassModalHeader:   "um-modal__header",
	ClassModalBody:     "um-modal__body",
	ClassActions:       "um-actions",
	ClassAlert:         "um-alert",
	ClassButtonPrimary: "um-button um-button--primary",
	ClassButtonSecond:  "um-button",
	ClassButtonDanger:  "um-button um-button--danger",
	ClassButtonIcon:    "um-button um-button--icon",
	ClassList:          "um-list",
	ClassRows:          "um-list__rows",
	ClassRow:           "um-list__row",
	ClassAvatar:        "um-avatar",
	ClassRowBody:       "um-list__body",
	ClassRowActions:    "um-list__actions",
	ClassEmpty:         "um-list__empty",
	ClassSpinner:       "um-spinner",
	ClassPagination:    "um-pagination",
}

// classMap merges overrides over the defaults, keyed by hook name for the
// templates.
func classMap(overrides map[ChromeClass]string) map[string]string {
	out := make(map[string]string, len(defaultClasses))
	for hook, class := range defaultClasses {
		out[string(hook)] = class
	}
	for hook, class := range overrides {
		if class = sanitizeClassList(class); class != "" {
			out[string(hook)] = class
		}
	}
	return out
}
