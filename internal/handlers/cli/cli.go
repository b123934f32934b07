package cli

import (
	"context"
	"os"

	"github.com/gabapcia/waveportal/internal/portal"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the waveportal CLI application.
//
// It registers all available commands:
//
//   - `feed`: Syncs the wave feed and streams new waves until interrupted.
//   - `connect`: Asks the wallet provider for account authorization.
//   - `wave`: Sends a wave and waits for it to be mined.
//   - `count`: Prints the contract's total wave counter.
func Run(ctx context.Context, p portal.Service) error {
	return newApp(p).Run(ctx, os.Args)
}

func newApp(p portal.Service) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "waveportal",
		Description:           "Command-line client for the wave portal contract.",
		Usage:                 "waveportal [command] [flags]",
		Commands: []*cli.Command{
			feedCommand(p),
			connectCommand(p),
			waveCommand(p),
			countCommand(p),
		},
	}
}
