// Package application provides the application interface for apirunner commands.
//
// The Application interface is the contract between the application layer and
// command implementations, so commands and the HTTP server can be tested with
// a Mock instead of a fully configured App.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            resp, err := client.Run(cmd.Context(), p)
//	            // ...
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (apirunner.Client, error) {
//	        return apirunner.New(apirunner.WithExecutor(fake))
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/apirunner"
)

// Application provides the application interface that commands need.
// The App struct from cmd/apirunner/app implements it.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the shared apirunner client, creating it lazily.
	Client() (apirunner.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// HubSpotToken returns the private-app token used when an upsert base
	// profile carries no credentials of its own.
	HubSpotToken() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
