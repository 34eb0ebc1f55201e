package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/console"
	"github.com/githubnext/validata/pkg/constants"
	"github.com/githubnext/validata/pkg/livecheck"
	"github.com/githubnext/validata/pkg/report"
	"github.com/githubnext/validata/pkg/schema"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// ErrValidationFailed is returned by ValidateFiles when every file could be
// read but at least one of them does not satisfy the schema.
var ErrValidationFailed = errors.New("validation failed")

// FileResult is the outcome of checking one file.
type FileResult struct {
	// Index is the position of the file in the argument list.
	Index  int
	File   string
	Format codec.Format
	Text   string
	Report report.Report
	// Err is set when the file could not be read or its format is unknown.
	Err error
}

// CheckFiles validates files against s concurrently. Results come back in
// argument order. progress, when set, is called with the number of files
// finished so far and may be called from several goroutines.
func CheckFiles(s *schema.Schema, files []string, forcedFormat string, progress func(done int)) []FileResult {
	p := pool.NewWithResults[FileResult]().WithMaxGoroutines(constants.MaxConcurrentValidations)
	var done atomic.Int64

	for i, file := range files {
		p.Go(func() FileResult {
			if progress != nil {
				defer func() { progress(int(done.Add(1))) }()
			}
			res := FileResult{Index: i, File: file}

			format, err := DocumentFormat(forcedFormat, file)
			if err != nil {
				res.Err = err
				return res
			}
			res.Format = format

			data, err := afero.ReadFile(appFs, file)
			if err != nil {
				res.Err = fmt.Errorf("failed to read %s: %w", file, err)
				return res
			}
			res.Text = string(data)
			res.Report = livecheck.Run(res.Text, format, s)
			return res
		})
	}

	results := p.Wait()
	slices.SortFunc(results, func(a, b FileResult) int {
		return a.Index - b.Index
	})
	return results
}

// ValidateFiles checks each file once and prints the reports. It returns
// ErrValidationFailed when a file has problems.
func ValidateFiles(locator string, files []string, forcedFormat string, verbose bool) error {
	if len(files) == 0 {
		return errors.New("no files to validate")
	}

	s, err := LoadSchema(locator, verbose)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Validating %d file(s) against %s", len(files), s.Name())))
	}

	spinner := console.NewSpinner(fmt.Sprintf("Validating %d file(s)...", len(files)))
	spinner.Start()
	results := CheckFiles(s, files, forcedFormat, func(done int) {
		spinner.UpdateMessage(fmt.Sprintf("Validated %d/%d file(s)...", done, len(files)))
	})
	spinner.Stop()

	return printResults(os.Stdout, results)
}

func printResults(out io.Writer, results []FileResult) error {
	readErrors := 0
	failed := 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			readErrors++
			fmt.Fprintln(out, console.FormatErrorMessage(res.Err.Error()))
		default:
			if !res.Report.OK() {
				failed++
			}
			fmt.Fprint(out, console.FormatReport(res.File, res.Text, res.Report, true))
		}
	}

	if len(results) > 1 {
		fmt.Fprint(out, console.RenderTable(summaryTable(results)))
	}

	if readErrors > 0 {
		return fmt.Errorf("%d of %d file(s) could not be checked", readErrors, len(results))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s) have problems", ErrValidationFailed, failed, len(results))
	}
	return nil
}

func summaryTable(results []FileResult) console.TableConfig {
	config := console.TableConfig{
		Title:   "Validation Summary",
		Headers: []string{"File", "Format", "Status", "Problems"},
	}
	valid := 0
	for _, res := range results {
		status := "valid"
		problems := strconv.Itoa(len(res.Report.Lines))
		format := res.Format.String()
		switch {
		case res.Err != nil:
			status = "error"
			problems = "-"
			if res.Format == 0 {
				format = "-"
			}
		case !res.Report.OK():
			status = "invalid"
		default:
			valid++
		}
		config.Rows = append(config.Rows, []string{console.ToRelativePath(res.File), format, status, problems})
	}
	config.ShowTotal = true
	config.TotalRow = []string{"TOTAL", "", fmt.Sprintf("%d/%d valid", valid, len(results)), ""}
	return config
}
