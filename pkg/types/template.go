package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// VersionLatest marks a template version as unspecified; the server resolves
// it to the latest version.
const VersionLatest = -1

// Template is a named, versioned document-source artifact stored server-side.
// Exactly one of Content and File supplies the body text when uploading;
// templates reconstructed from server JSON always carry Content.
type Template struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
	File    string `json:"file,omitempty"`
	Version int    `json:"version"`
}

// NewTemplate returns a Template with an unset version.
func NewTemplate(name string) Template {
	return Template{Name: name, Version: VersionLatest}
}

// Validate checks that the template can be uploaded: it must be named and
// must have exactly one body source.
func (t Template) Validate() error {
	if t.Name == "" {
		return ErrMissingTemplateName
	}
	if (t.Content == "") == (t.File == "") {
		return ErrTemplateSourceConflict
	}
	return nil
}

// Source returns the template body text, reading File if Content is unset.
func (t Template) Source() (string, error) {
	if t.Content != "" {
		return t.Content, nil
	}
	if t.File == "" {
		return "", ErrTemplateSourceConflict
	}
	data, err := os.ReadFile(t.File)
	if err != nil {
		return "", fmt.Errorf("read template file: %w", err)
	}
	return string(data), nil
}

// templateWire is the server's JSON shape. The body text travels in the
// "template" field.
type templateWire struct {
	Name     string `json:"name"`
	Template string `json:"template"`
	Version  int    `json:"version"`
}

// DecodeTemplate parses one server-side template record. Unknown fields are
// decode errors naming the field, not silently dropped.
func DecodeTemplate(data []byte) (Template, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w templateWire
	if err := dec.Decode(&w); err != nil {
		return Template{}, fmt.Errorf("decode template: %w", err)
	}
	if w.Name == "" {
		return Template{}, fmt.Errorf("decode template: %w", ErrMissingTemplateName)
	}
	return Template{Name: w.Name, Content: w.Template, Version: w.Version}, nil
}

// DecodeTemplates parses a server-side template list, preserving order.
func DecodeTemplates(data []byte) ([]Template, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode template list: %w", err)
	}

	templates := make([]Template, 0, len(raw))
	for _, r := range raw {
		t, err := DecodeTemplate(r)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}
