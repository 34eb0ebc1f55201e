package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/githubnext/validata/pkg/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/afero"
)

// Action is what the user chose to do after an edit.
type Action int

const (
	ActionSave Action = iota
	ActionEdit
	ActionSaveQuit
	ActionQuit
)

var actionLabels = []string{"Save", "Edit again", "Save and quit", "Quit"}

func (a Action) String() string {
	if int(a) < len(actionLabels) {
		return actionLabels[a]
	}
	return "Unknown"
}

// EditorCommand returns the user's editor command from $VISUAL or $EDITOR,
// falling back to vi.
func EditorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{constants.DefaultEditor}
}

// Interactive runs a session through an external editor: the text is opened
// in the editor, validated when the editor exits, and the user picks what to
// do next.
type Interactive struct {
	session *Session
	fs      afero.Fs
	tempDir string

	edit   func(ctx context.Context, path string) error
	choose func(label string) (Action, error)
}

// NewInteractive wraps a loaded session. fs must be the filesystem the
// editor process sees, normally afero.NewOsFs().
func NewInteractive(session *Session, fs afero.Fs) *Interactive {
	return &Interactive{
		session: session,
		fs:      fs,
		tempDir: os.TempDir(),
		edit:    runEditor,
		choose:  promptAction,
	}
}

// Run loops until the user quits or ctx is cancelled.
func (it *Interactive) Run(ctx context.Context) error {
	tmpPath, err := it.createTempFile()
	if err != nil {
		return err
	}
	defer func() {
		_ = it.fs.Remove(tmpPath)
	}()

	saved := it.session.Text()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := it.editOnce(ctx, tmpPath); err != nil {
			return err
		}

		r := it.session.Report()
		label := "Document is valid"
		if !r.OK() {
			label = fmt.Sprintf("%d problem(s) found", len(r.Lines))
		}

		action, err := it.choose(label)
		if err != nil {
			return err
		}

		switch action {
		case ActionSave, ActionSaveQuit:
			if err := it.session.Save(); err != nil {
				return err
			}
			saved = it.session.Text()
			if action == ActionSaveQuit {
				return nil
			}
		case ActionQuit:
			if it.session.Text() != saved {
				it.session.opts.Presenter.Notify("Discarding unsaved changes.", LevelWarning)
			}
			return nil
		}

		// Save and Edit again both reopen the editor.
	}
}

func (it *Interactive) createTempFile() (string, error) {
	ext := "." + it.session.Format().String()
	base := strings.TrimSuffix(filepath.Base(it.session.Path()), filepath.Ext(it.session.Path()))
	f, err := afero.TempFile(it.fs, it.tempDir, base+"-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return name, nil
}

// editOnce hands the current text to the editor and validates the result.
func (it *Interactive) editOnce(ctx context.Context, tmpPath string) error {
	if err := afero.WriteFile(it.fs, tmpPath, []byte(it.session.Text()), 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := it.edit(ctx, tmpPath); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	data, err := afero.ReadFile(it.fs, tmpPath)
	if err != nil {
		return fmt.Errorf("failed to read edited text: %w", err)
	}
	it.session.SetText(string(data))
	it.session.Validate()
	return nil
}

func runEditor(ctx context.Context, path string) error {
	command := EditorCommand()
	cmd := exec.CommandContext(ctx, command[0], append(command[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func promptAction(label string) (Action, error) {
	prompt := promptui.Select{
		Label: label,
		Items: actionLabels,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return ActionQuit, nil
		}
		return ActionQuit, fmt.Errorf("prompt failed: %w", err)
	}
	return Action(idx), nil
}
