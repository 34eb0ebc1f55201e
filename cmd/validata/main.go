package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/githubnext/validata/pkg/cli"
	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/console"
	"github.com/githubnext/validata/pkg/constants"
	"github.com/spf13/cobra"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var verbose bool

// validateFormat validates the --format flag value
func validateFormat(format string) error {
	if format == "" {
		return nil
	}
	if _, err := codec.ParseFormat(format); err != nil {
		return fmt.Errorf("invalid format value '%s'. Must be 'json' or 'yaml'", format)
	}
	return nil
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, cli.ErrValidationFailed) {
		return constants.ExitValidationFailed
	}
	return constants.ExitError
}

// fail prints err and exits.
func fail(err error) {
	fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
	os.Exit(exitCode(err))
}

var rootCmd = &cobra.Command{
	Use:   constants.CLIName,
	Short: "Edit and validate JSON and YAML documents against a JSON Schema",
	Long: `validata checks JSON and YAML documents against a JSON Schema while you edit them.

A schema is named by a locator of the form <source>:<name>, where <source> is a
path or http(s) URL to a schema document and <name> selects a definition under
$defs/definitions, or the root schema when it matches its title.

Every problem is reported at once, in declaration order:
  - age: Field required (expected type: int) [missing]`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <schema-locator> <file>",
	Short: "Edit a document in $EDITOR, validating it after every change",
	Long: `Edit a document in $EDITOR, validating it after every change.

When the file does not exist the editor starts from the smallest document that
satisfies the schema's required fields. After each edit you can save, edit
again, save and quit, or quit without saving.

Examples:
  ` + constants.CLIName + ` edit schemas/config.json:Config config.yaml
  ` + constants.CLIName + ` edit https://example.com/person.schema.json:Person person.json
  ` + constants.CLIName + ` edit schemas/config.json:Config config.yaml --clean`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		clean, _ := cmd.Flags().GetBool("clean")
		if err := validateFormat(format); err != nil {
			fail(err)
		}
		if err := cli.EditDocument(cmd.Context(), args[0], args[1], format, clean, verbose); err != nil {
			fail(err)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <schema-locator> <file>...",
	Short: "Validate one or more documents",
	Long: `Validate one or more documents against a schema and print every problem found.

Files are checked concurrently and reported in the order given. The exit status
is 2 when a document has problems and 1 when a file cannot be read.

Examples:
  ` + constants.CLIName + ` validate schemas/config.json:Config config.yaml
  ` + constants.CLIName + ` validate schemas/config.json:Config envs/*.yaml`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		if err := validateFormat(format); err != nil {
			fail(err)
		}
		if err := cli.ValidateFiles(args[0], args[1:], format, verbose); err != nil {
			fail(err)
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init <schema-locator> <file>",
	Short: "Write the default document for a schema",
	Long: `Write the smallest document that satisfies the schema's required fields.

Existing files are left alone unless --force is given.

Examples:
  ` + constants.CLIName + ` init schemas/config.json:Config config.yaml
  ` + constants.CLIName + ` init schemas/config.json:Config config.json --force`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		force, _ := cmd.Flags().GetBool("force")
		if err := validateFormat(format); err != nil {
			fail(err)
		}
		if err := cli.InitDocument(args[0], args[1], format, force, verbose); err != nil {
			fail(err)
		}
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <schema-locator> <file>",
	Short: "Re-validate a document whenever it changes on disk",
	Long: `Re-validate a document whenever it changes on disk. Press Ctrl+C to stop.

Examples:
  ` + constants.CLIName + ` watch schemas/config.json:Config config.yaml`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		if err := validateFormat(format); err != nil {
			fail(err)
		}
		if err := cli.WatchDocument(cmd.Context(), args[0], args[1], format, verbose); err != nil {
			fail(err)
		}
	},
}

var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Serve the validation tools over MCP (stdio)",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing two tools:

  validate_document  validate document text against a schema locator
  default_document   produce the default document for a schema locator`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.RunMCPServer(cmd.Context()); err != nil {
			fail(err)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.CLIName, version)))
	},
}

func init() {
	// Add global verbose flag to root command
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing detailed information")

	for _, cmd := range []*cobra.Command{editCmd, validateCmd, initCmd, watchCmd} {
		cmd.Flags().StringP("format", "f", "", "Document format (json, yaml); inferred from the file extension by default")
	}

	editCmd.Flags().Bool("clean", false, "Start from an empty document even if the file exists")
	initCmd.Flags().Bool("force", false, "Overwrite the file if it already exists")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpServerCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Set version information in the CLI package
	cli.SetVersionInfo(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		stop()
		os.Exit(constants.ExitError)
	}
}
