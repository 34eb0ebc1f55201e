package console

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// SpinnerWrapper shows progress on stderr while slow work (remote schema
// loading, batch validation) runs. It is a no-op when stderr is not a terminal.
type SpinnerWrapper struct {
	spinner *spinner.Spinner
	enabled bool
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *SpinnerWrapper {
	s := &SpinnerWrapper{
		enabled: isatty.IsTerminal(os.Stderr.Fd()),
	}

	if s.enabled {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
		s.spinner.Suffix = " " + message
		_ = s.spinner.Color("cyan")
	}

	return s
}

// Start begins the spinner animation
func (s *SpinnerWrapper) Start() {
	if s.enabled && s.spinner != nil {
		s.spinner.Start()
	}
}

// Stop stops the spinner animation
func (s *SpinnerWrapper) Stop() {
	if s.enabled && s.spinner != nil {
		s.spinner.Stop()
	}
}

// StopWithMessage stops the spinner and prints message to stderr in its place.
func (s *SpinnerWrapper) StopWithMessage(message string) {
	if s.enabled && s.spinner != nil {
		s.spinner.FinalMSG = message + "\n"
		s.spinner.Stop()
		return
	}
	fmt.Fprintln(os.Stderr, message)
}

// UpdateMessage updates the spinner message
func (s *SpinnerWrapper) UpdateMessage(message string) {
	if s.enabled && s.spinner != nil {
		s.spinner.Lock()
		s.spinner.Suffix = " " + message
		s.spinner.Unlock()
	}
}

// IsEnabled returns whether the spinner is enabled (i.e., stderr is a TTY)
func (s *SpinnerWrapper) IsEnabled() bool {
	return s.enabled
}
