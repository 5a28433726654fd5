// Package builder resolves a build request into a PDF, either by compiling
// a local source file or by triggering a server-side build.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reportobello/rpb/pkg/client"
)

// DefaultDataFile is read for remote builds when no data source is given.
const DefaultDataFile = "data.json"

// ErrNoMode means the request selected neither local nor remote mode, or
// the builder is missing the capability for the selected mode.
var ErrNoMode = errors.New("build request selects no usable build mode")

// CompileFunc is the opaque local-compile capability: compile inputFile into
// outputFile or fail.
type CompileFunc func(ctx context.Context, inputFile, outputFile string) error

// RemoteClient triggers server-side builds.
type RemoteClient interface {
	BuildTemplate(ctx context.Context, name string, data any) (*client.LazyPdf, error)
}

// Builder dispatches build requests. Exactly one of the two modes runs per
// request, selected by the caller.
type Builder struct {
	Compile CompileFunc  // local mode
	Client  RemoteClient // remote mode
}

// Request describes one build.
type Request struct {
	// Remote selects the server-side build path.
	Remote bool
	// Template is the local source file (local mode) or the template name
	// (remote mode).
	Template string
	// DataPath is the remote build's JSON input: a file path, "-" for
	// stdin, or empty for data.json.
	DataPath string
	// Stdin backs DataPath "-".
	Stdin io.Reader
}

// Result is the produced PDF: a local output file, or a deferred remote
// reference. Exactly one field is set.
type Result struct {
	OutputFile string
	PDF        *client.LazyPdf
}

// Build runs one build request.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	if req.Remote {
		if b.Client == nil {
			return nil, ErrNoMode
		}
		data, err := LoadData(req.DataPath, req.Stdin)
		if err != nil {
			return nil, err
		}
		pdf, err := b.Client.BuildTemplate(ctx, req.Template, data)
		if err != nil {
			return nil, err
		}
		return &Result{PDF: pdf}, nil
	}

	if b.Compile == nil {
		return nil, ErrNoMode
	}
	out := OutputPath(req.Template)
	if err := b.Compile(ctx, req.Template, out); err != nil {
		return nil, err
	}
	return &Result{OutputFile: out}, nil
}

// OutputPath derives the PDF path from a source file path.
func OutputPath(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return strings.TrimSuffix(inputFile, ext) + ".pdf"
}

// LoadData reads and parses the remote build's JSON input data.
func LoadData(path string, stdin io.Reader) (any, error) {
	var (
		raw []byte
		err error
	)
	switch {
	case path == "-":
		if stdin == nil {
			stdin = os.Stdin
		}
		raw, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read data from stdin: %w", err)
		}
	case path == "":
		path = DefaultDataFile
		fallthrough
	default:
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse build data: %w", err)
	}
	return data, nil
}
