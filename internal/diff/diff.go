// Package diff computes line deltas between two versions of a template.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Kind classifies a diff line for presentation.
type Kind int

const (
	Context Kind = iota
	Added
	Removed
	Hunk
)

// Line is one classified line of a unified diff, marker included.
type Line struct {
	Kind Kind
	Text string
}

// Compute returns the unified diff from previous to current, with the
// file-header pair stripped. An empty result means the contents are
// identical; callers present that as "no diff".
func Compute(current, previous string, currentLabel, previousLabel string) ([]Line, error) {
	unified := difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: previousLabel,
		ToFile:   currentLabel,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(unified)
	if err != nil {
		return nil, fmt.Errorf("compute diff: %w", err)
	}
	if text == "" {
		return nil, nil
	}

	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(raw) >= 2 && strings.HasPrefix(raw[0], "---") && strings.HasPrefix(raw[1], "+++") {
		raw = raw[2:]
	}

	lines := make([]Line, 0, len(raw))
	for _, text := range raw {
		lines = append(lines, Line{Kind: classify(text), Text: text})
	}
	return lines, nil
}

func classify(text string) Kind {
	switch {
	case strings.HasPrefix(text, "-"):
		return Removed
	case strings.HasPrefix(text, "+"):
		return Added
	case strings.HasPrefix(text, "@"):
		return Hunk
	}
	return Context
}
