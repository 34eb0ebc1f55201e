package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/console"
	"github.com/githubnext/validata/pkg/constants"
	"github.com/githubnext/validata/pkg/livecheck"
	"github.com/githubnext/validata/pkg/schema"
	"github.com/spf13/afero"
)

// version is set by SetVersionInfo from the build-time value in main.
var version = "dev"

// appFs is the filesystem documents and local schemas are read from.
var appFs = afero.NewOsFs()

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v string) {
	version = v
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// LoadSchema resolves a <source>:<name> locator. Remote schemas show a
// spinner while they download.
func LoadSchema(locator string, verbose bool) (*schema.Schema, error) {
	loc, err := schema.ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	loader := schema.NewLoader(appFs)
	if !loc.IsRemote() {
		s, err := loader.LoadLocator(loc)
		if err == nil && verbose {
			fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Loaded schema %s from %s", s.Name(), loc.Source)))
		}
		return s, err
	}

	spinner := console.NewSpinner(fmt.Sprintf("Fetching schema %s...", loc.Source))
	if verbose && !spinner.IsEnabled() {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Fetching schema %s...", loc.Source)))
	}
	spinner.Start()
	s, err := loader.LoadLocator(loc)
	if err != nil {
		spinner.Stop()
		return nil, err
	}
	if verbose {
		spinner.StopWithMessage(console.FormatVerboseMessage(fmt.Sprintf("Fetched schema %s from %s", s.Name(), loc.Source)))
	} else {
		spinner.Stop()
	}
	return s, nil
}

// DocumentFormat picks the document format from the --format flag or the
// file extension.
func DocumentFormat(forced, file string) (codec.Format, error) {
	f, err := codec.ResolveFormat(forced, file)
	if err != nil {
		return 0, fmt.Errorf("cannot determine format of %s: %w (use --format json|yaml)", file, err)
	}
	return f, nil
}

// WatchDocument re-validates file whenever it is written, until ctx is
// cancelled.
func WatchDocument(ctx context.Context, locator, file, forcedFormat string, verbose bool) error {
	s, err := LoadSchema(locator, verbose)
	if err != nil {
		return err
	}
	format, err := DocumentFormat(forcedFormat, file)
	if err != nil {
		return err
	}
	return watchDocument(ctx, os.Stdout, s, format, file, verbose)
}

// watchDocument runs the watch loop. All output is written from the loop
// goroutine; debounce timers only signal it.
func watchDocument(ctx context.Context, out io.Writer, s *schema.Schema, format codec.Format, file string, verbose bool) error {
	absFile, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", file, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	dir := filepath.Dir(absFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	fmt.Fprintf(out, "Watching for file changes to %s...\n", file)
	if verbose {
		fmt.Fprintln(out, "Press Ctrl+C to stop watching.")
	}

	check := func() {
		text, err := afero.ReadFile(appFs, absFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, console.FormatWarningMessage(fmt.Sprintf("%s does not exist yet", file)))
				return
			}
			fmt.Fprintln(out, console.FormatErrorMessage(err.Error()))
			return
		}
		r := livecheck.Run(string(text), format, s)
		fmt.Fprint(out, console.FormatReport(file, string(text), r, true))
	}
	check()

	recheck := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if event.Name != absFile {
				continue
			}
			if verbose {
				fmt.Fprintln(out, console.FormatVerboseMessage(fmt.Sprintf("Detected change: %s (%s)", event.Name, event.Op.String())))
			}

			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				fmt.Fprintln(out, console.FormatWarningMessage(fmt.Sprintf("%s was removed", file)))
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(constants.WatchDebounceDelay, func() {
					select {
					case recheck <- struct{}{}:
					default:
					}
				})
			}

		case <-recheck:
			check()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if verbose {
				fmt.Fprintln(out, console.FormatWarningMessage(fmt.Sprintf("Watcher error: %v", err)))
			}

		case <-ctx.Done():
			if verbose {
				fmt.Fprintln(out, "\nStopping watch mode...")
			}
			return nil
		}
	}
}
