package renderer

import "fmt"

// TemplateSyntaxError is returned when a template or one of its tags cannot
// be parsed. Tag and Markup are set for malformed custom tags.
type TemplateSyntaxError struct {
	Name   string
	Tag    string
	Markup string
	Err    error
}

func (e *TemplateSyntaxError) Error() string {
	switch {
	case e.Tag != "" && e.Err != nil:
		return fmt.Sprintf("%s: syntax error in %q tag (%s): %v", e.Name, e.Tag, e.Markup, e.Err)
	case e.Tag != "":
		return fmt.Sprintf("%s: syntax error in %q tag: %q", e.Name, e.Tag, e.Markup)
	default:
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
}

func (e *TemplateSyntaxError) Unwrap() error { return e.Err }
