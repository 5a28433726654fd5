// Package typst drives the typst binary to compile template sources locally.
package typst

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// CompileError is a compiler diagnostic: the source failed to compile, the
// toolchain itself is fine. Output is the compiler's stderr, stripped.
type CompileError struct {
	Output string
}

func (e *CompileError) Error() string {
	return e.Output
}

// Compiler compiles .typ sources to PDF by shelling out to typst.
type Compiler struct {
	// Bin is the typst binary; defaults to "typst" on PATH.
	Bin string
	// Inputs are passed to the compiler as --input key=value pairs,
	// visible to the template as sys.inputs.
	Inputs map[string]string
}

// Compile builds inputFile into outputFile. A non-zero compiler exit is
// returned as *CompileError; anything else means the binary could not run.
func (c *Compiler) Compile(ctx context.Context, inputFile, outputFile string) error {
	bin := c.Bin
	if bin == "" {
		bin = "typst"
	}

	cmd := exec.CommandContext(ctx, bin, c.args(inputFile, outputFile)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CompileError{Output: strings.TrimSpace(stderr.String())}
		}
		return fmt.Errorf("run %s: %w", bin, err)
	}
	return nil
}

// args builds the compiler argv with deterministic input ordering.
func (c *Compiler) args(inputFile, outputFile string) []string {
	args := []string{"compile", inputFile, outputFile}

	keys := make([]string, 0, len(c.Inputs))
	for k := range c.Inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--input", k+"="+c.Inputs[k])
	}
	return args
}
