package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/reportobello/rpb/cmd/rpb/cmd"
	"github.com/reportobello/rpb/internal/typst"
	"github.com/reportobello/rpb/pkg/types"
)

var compileErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, message(err))
		os.Exit(1)
	}
}

// message turns a typed error into the guidance shown to the user.
// Unexpected errors keep their plain text so nothing is swallowed.
func message(err error) string {
	var (
		notFound     *types.TemplateNotFoundError
		unauthorized *types.UnauthorizedError
		serverErr    *types.ServerError
		buildFailure *types.BuildFailureError
		fileTooBig   *types.FileTooBigError
		compileErr   *typst.CompileError
		urlErr       *url.Error
	)

	switch {
	case errors.Is(err, types.ErrMissingAPIKey):
		return "Missing API key. Set the REPORTOBELLO_API_KEY env var"
	case errors.As(err, &compileErr):
		return compileErrorStyle.Render(compileErr.Output)
	case errors.As(err, &unauthorized):
		return "Unauthorized. Check that REPORTOBELLO_API_KEY and REPORTOBELLO_HOST are set correctly"
	case errors.As(err, &notFound):
		return "Error: " + notFound.Error()
	case errors.As(err, &buildFailure):
		return "Error: " + buildFailure.Error()
	case errors.As(err, &fileTooBig):
		return "Error: " + fileTooBig.Error()
	case errors.As(err, &serverErr):
		return "Error: " + serverErr.Error()
	case errors.As(err, &urlErr):
		return fmt.Sprintf("Could not connect to %s. Check the configured host and your network", urlErr.URL)
	}
	return "Error: " + err.Error()
}
