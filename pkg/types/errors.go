package types

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey means no credential was configured via flag or environment.
var ErrMissingAPIKey = errors.New("REPORTOBELLO_API_KEY env var is not set. Set it, or pass the API key directly")

// ErrMissingTemplateName means a Template was constructed without a name.
var ErrMissingTemplateName = errors.New("template name must be set")

// ErrTemplateSourceConflict means a Template supplied both inline content and
// a source file, or neither. Exactly one must be set before uploading.
var ErrTemplateSourceConflict = errors.New("exactly one of template content or file must be set")

// TemplateNotFoundError is returned when a template-scoped endpoint answers 404.
type TemplateNotFoundError struct {
	Name    string
	Message string // server response body
	Hint    string // optional suggestion, e.g. when the name looks like a filename
}

func (e *TemplateNotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("template %q not found (%s)", e.Name, e.Hint)
	}
	return fmt.Sprintf("template %q not found", e.Name)
}

// BuildFailureError carries the server diagnostic for a rejected remote build.
type BuildFailureError struct {
	Message string
}

func (e *BuildFailureError) Error() string {
	return "report build failed: " + e.Message
}

// FileTooBigError is returned when an auxiliary file upload exceeds the
// server's size limit.
type FileTooBigError struct {
	Message string
}

func (e *FileTooBigError) Error() string {
	if e.Message != "" {
		return "file too big: " + e.Message
	}
	return "file too big"
}

// UnauthorizedError is returned for any 401 response.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message != "" {
		return "unauthorized: " + e.Message
	}
	return "unauthorized"
}

// ServerError is returned for any 5xx response. Reason is the HTTP reason
// phrase, e.g. "Internal Server Error".
type ServerError struct {
	Reason string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Reason
}
