// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ideatopia/pwdgen/internal/config"
	"github.com/ideatopia/pwdgen/internal/issue"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders markdown for the terminal. The color scheme names
// map directly onto glamour's standard styles ("auto", "dark", "light").
func renderMarkdown(md string, scheme config.ColorScheme) (string, error) {
	if ok, _ := scheme.IsValid(); !ok {
		scheme = config.ColorSchemeAuto
	}
	return glamour.Render(md, scheme.String())
}

// printGuide prints the remediation guide linked to err, if any.
func printGuide(w io.Writer, err error, scheme config.ColorScheme) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	if guide := ae.Guide(); guide != nil {
		printIssue(w, guide.Id(), scheme)
	}
}

// printIssue renders a catalogued guide. Rendering failures are logged and
// otherwise ignored since the guide only supplements an error already shown.
func printIssue(w io.Writer, id issue.Id, scheme config.ColorScheme) {
	guide := issue.Get(id)
	if guide == nil {
		return
	}
	if ok, _ := scheme.IsValid(); !ok {
		scheme = config.ColorSchemeAuto
	}
	rendered, err := guide.Render(scheme.String())
	if err != nil {
		slog.Debug("could not render issue guide", "id", int(id), "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}
