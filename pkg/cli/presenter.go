package cli

import (
	"fmt"
	"io"

	"github.com/githubnext/validata/pkg/console"
	"github.com/githubnext/validata/pkg/editor"
	"github.com/githubnext/validata/pkg/report"
)

// TerminalPresenter prints session reports and notifications to a terminal.
type TerminalPresenter struct {
	out  io.Writer
	file string
	// text returns the document text the current report was built from.
	text func() string
}

// NewTerminalPresenter creates a presenter for file. text may be nil, in
// which case reports are rendered without source context.
func NewTerminalPresenter(out io.Writer, file string, text func() string) *TerminalPresenter {
	return &TerminalPresenter{out: out, file: file, text: text}
}

// ShowReport implements editor.Presenter.
func (p *TerminalPresenter) ShowReport(r report.Report) {
	src := ""
	if p.text != nil {
		src = p.text()
	}
	fmt.Fprint(p.out, console.FormatReport(p.file, src, r, src != ""))
}

// Notify implements editor.Presenter.
func (p *TerminalPresenter) Notify(message string, level editor.Level) {
	var line string
	switch level {
	case editor.LevelSuccess:
		line = console.FormatSuccessMessage(message)
	case editor.LevelWarning:
		line = console.FormatWarningMessage(message)
	case editor.LevelError:
		line = console.FormatErrorMessage(message)
	default:
		line = console.FormatInfoMessage(message)
	}
	fmt.Fprintln(p.out, line)
}
