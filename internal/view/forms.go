package view

// FieldError is one entry of the GOV.UK error summary.
type FieldError struct {
	Field   string
	Message string
	Href    string
}

// FormErrors collects validation messages in the order fields were checked.
// The zero value is ready to use.
type FormErrors struct {
	order    []string
	messages map[string]string
}

// Add records msg for field. The first message per field wins.
func (e *FormErrors) Add(field, msg string) {
	if e.messages == nil {
		e.messages = make(map[string]string)
	}
	if _, ok := e.messages[field]; ok {
		return
	}
	e.order = append(e.order, field)
	e.messages[field] = msg
}

// Get returns the message for field, or "".
func (e FormErrors) Get(field string) string {
	return e.messages[field]
}

// Any reports whether any error was recorded.
func (e FormErrors) Any() bool {
	return len(e.order) > 0
}

// List returns the errors for the summary component.
func (e FormErrors) List() []FieldError {
	out := make([]FieldError, 0, len(e.order))
	for _, field := range e.order {
		out = append(out, FieldError{Field: field, Message: e.messages[field], Href: "#" + field})
	}
	return out
}
