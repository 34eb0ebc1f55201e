package constants

import "time"

// CLIName is the command name used in user-facing output
const CLIName = "validata"

// DefaultEditor is used when neither $VISUAL nor $EDITOR is set
const DefaultEditor = "vi"

// Exit codes of the validate command
const (
	ExitError            = 1
	ExitValidationFailed = 2
)

// MaxConcurrentValidations bounds the batch validator's worker pool
const MaxConcurrentValidations = 8

// WatchDebounceDelay is how long watch mode waits for writes to settle
const WatchDebounceDelay = 300 * time.Millisecond

// RemoteSchemaTimeout bounds fetching a schema over HTTP
const RemoteSchemaTimeout = 30 * time.Second
