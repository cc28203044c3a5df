// Package rendering generates the landing page that links every chart on disk.
package rendering

import "fmt"

// embeddedTemplate names the built-in page template in errors.
const embeddedTemplate = "embedded index template"

// TemplateError reports a page template that could not be loaded or executed. Template is
// the override path, or embeddedTemplate.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("index template %s: %s: %v", e.Template, e.Message, e.Cause)
	}
	return fmt.Sprintf("index template %s: %s", e.Template, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// PageError reports a failure listing charts or writing the page at Path.
type PageError struct {
	Path    string
	Message string
	Cause   error
}

func (e *PageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("index page %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("index page %s: %s", e.Path, e.Message)
}

func (e *PageError) Unwrap() error {
	return e.Cause
}
