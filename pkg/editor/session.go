// Package editor drives one editing session: load or bootstrap the document,
// validate on request and save through a Store.
package editor

import (
	"errors"
	"fmt"

	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/defaults"
	"github.com/githubnext/validata/pkg/livecheck"
	"github.com/githubnext/validata/pkg/report"
	"github.com/githubnext/validata/pkg/schema"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Presenter shows reports and short notifications to the user.
type Presenter interface {
	ShowReport(r report.Report)
	Notify(message string, level Level)
}

// Options configures a Session.
type Options struct {
	Path   string
	Format codec.Format
	Schema *schema.Schema
	Store  Store
	// Presenter may be nil when nothing needs to be shown.
	Presenter Presenter
	// ForceClean starts from empty text even if the file exists.
	ForceClean bool
}

// Session holds the text being edited. It is not safe for concurrent use.
type Session struct {
	opts   Options
	text   string
	report report.Report
}

// NewSession validates opts and creates a session. Call Load before use.
func NewSession(opts Options) (*Session, error) {
	if opts.Path == "" {
		return nil, errors.New("session requires a document path")
	}
	if opts.Schema == nil {
		return nil, errors.New("session requires a schema")
	}
	if opts.Store == nil {
		return nil, errors.New("session requires a store")
	}
	if opts.Presenter == nil {
		opts.Presenter = nopPresenter{}
	}
	return &Session{opts: opts}, nil
}

// Load sets the initial text and validates it. A missing file is
// bootstrapped from the schema's default document; when that fails the user
// is notified and editing starts from empty text.
func (s *Session) Load() error {
	if s.opts.ForceClean {
		s.text = ""
		s.Validate()
		return nil
	}

	text, err := s.opts.Store.Read(s.opts.Path)
	switch {
	case err == nil:
		s.text = text
	case errors.Is(err, ErrNotFound):
		s.text = s.defaultText()
	default:
		return err
	}

	s.Validate()
	return nil
}

func (s *Session) defaultText() string {
	doc, err := defaults.Synthesize(s.opts.Schema)
	if err != nil {
		s.opts.Presenter.Notify(fmt.Sprintf("Default serialization failed for %s", s.opts.Schema.Name()), LevelError)
		return ""
	}
	return codec.Encode(doc, s.opts.Format)
}

// Validate checks the current text and shows the report.
func (s *Session) Validate() report.Report {
	s.report = livecheck.Run(s.text, s.opts.Format, s.opts.Schema)
	s.opts.Presenter.ShowReport(s.report)
	return s.report
}

// Save writes the current text, then re-validates it.
func (s *Session) Save() error {
	if err := s.opts.Store.Write(s.opts.Path, s.text); err != nil {
		s.opts.Presenter.Notify(fmt.Sprintf("Failed to save %s: %v", s.opts.Path, err), LevelError)
		return err
	}
	s.Validate()
	s.opts.Presenter.Notify("File saved.", LevelSuccess)
	return nil
}

// SetText replaces the text being edited. It does not validate.
func (s *Session) SetText(text string) {
	s.text = text
}

// Text is the text being edited.
func (s *Session) Text() string {
	return s.text
}

// Report is the result of the last validation.
func (s *Session) Report() report.Report {
	return s.report
}

// Path is the document path.
func (s *Session) Path() string {
	return s.opts.Path
}

// Format is the session's document format.
func (s *Session) Format() codec.Format {
	return s.opts.Format
}

type nopPresenter struct{}

func (nopPresenter) ShowReport(report.Report) {}

func (nopPresenter) Notify(string, Level) {}
