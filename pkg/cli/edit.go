package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/githubnext/validata/pkg/console"
	"github.com/githubnext/validata/pkg/editor"
)

// EditDocument opens file in an interactive editing session validated
// against the schema named by locator.
func EditDocument(ctx context.Context, locator, file, forcedFormat string, clean, verbose bool) error {
	s, err := LoadSchema(locator, verbose)
	if err != nil {
		return err
	}
	format, err := DocumentFormat(forcedFormat, file)
	if err != nil {
		return err
	}

	var session *editor.Session
	presenter := NewTerminalPresenter(os.Stdout, file, func() string {
		if session == nil {
			return ""
		}
		return session.Text()
	})

	session, err = editor.NewSession(editor.Options{
		Path:       file,
		Format:     format,
		Schema:     s,
		Store:      editor.NewFileStore(appFs),
		Presenter:  presenter,
		ForceClean: clean,
	})
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Editing %s as %s with %v", file, format.Label(), editor.EditorCommand())))
	}

	if err := session.Load(); err != nil {
		return err
	}
	return editor.NewInteractive(session, appFs).Run(ctx)
}
