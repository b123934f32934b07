package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/waveportal/internal/portal"

	"github.com/urfave/cli/v3"
)

// connectCommand returns a CLI command that requests account authorization
// from the wallet provider.
//
// Usage example:
//
//	waveportal connect
func connectCommand(p portal.Service) *cli.Command {
	return &cli.Command{
		Name:        "connect",
		Description: "Requests account access from the wallet provider.",
		Usage:       "Connects the wallet and prints the active address.",
		Action: func(ctx context.Context, c *cli.Command) error {
			defer p.Close()

			address, err := p.Connect(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "connected: %s\n", address)
			return nil
		},
	}
}

// waveCommand returns a CLI command that sends a wave and blocks until the
// transaction is mined or fails.
//
// Usage example:
//
//	waveportal wave --message "gm"
func waveCommand(p portal.Service) *cli.Command {
	return &cli.Command{
		Name:        "wave",
		Description: "Sends a wave with a message to the contract.",
		Usage:       "Submits wave(message) and waits for confirmation. Requires a connected wallet.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "message",
				Usage:    "Message attached to the wave",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := p.Start(ctx); err != nil {
				return err
			}
			defer p.Close()

			outcome, err := p.Send(ctx, c.String("message"))
			if err != nil {
				return err
			}

			out := c.Root().Writer
			fmt.Fprintf(out, "mined: %s\n", outcome.TxHash)
			if outcome.RewardPaid {
				fmt.Fprintln(out, "you won ETH!")
			}

			return nil
		},
	}
}

// countCommand returns a CLI command that prints the total number of waves
// recorded by the contract.
//
// Usage example:
//
//	waveportal count
func countCommand(p portal.Service) *cli.Command {
	return &cli.Command{
		Name:        "count",
		Description: "Reads the contract's total wave counter.",
		Usage:       "Prints how many waves the contract has received. Requires a connected wallet.",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := p.Start(ctx); err != nil {
				return err
			}
			defer p.Close()

			total, err := p.TotalWaves(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%d\n", total)
			return nil
		},
	}
}
