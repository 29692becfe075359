// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used for status lines on stdout.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed call or operation.
	Error = "✗"

	// Stop marks a shutdown in progress.
	Stop = "✗"

	// Warning marks non-fatal issues such as error rows in a dataset.
	Warning = "!"

	// DryRun marks output that describes a write without performing it.
	DryRun = "-"
)
