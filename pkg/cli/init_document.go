package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/console"
	"github.com/githubnext/validata/pkg/defaults"
	"github.com/githubnext/validata/pkg/editor"
	"github.com/spf13/afero"
)

// ErrFileExists is returned by InitDocument when the target exists and
// --force was not given.
var ErrFileExists = errors.New("file already exists")

// InitDocument writes the default document for the schema named by locator
// to file.
func InitDocument(locator, file, forcedFormat string, force, verbose bool) error {
	s, err := LoadSchema(locator, verbose)
	if err != nil {
		return err
	}
	format, err := DocumentFormat(forcedFormat, file)
	if err != nil {
		return err
	}

	if !force {
		exists, err := afero.Exists(appFs, file)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", file, err)
		}
		if exists {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, file)
		}
	}

	doc, err := defaults.Synthesize(s)
	if err != nil {
		return fmt.Errorf("default serialization failed for %s: %w", s.Name(), err)
	}

	if err := editor.WriteFileAtomic(appFs, file, []byte(codec.Encode(doc, format))); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}

	fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(fmt.Sprintf("Created %s from %s", console.ToRelativePath(file), s.Name())))
	return nil
}
