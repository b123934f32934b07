package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/waveportal/internal/pkg/x/chflow"
	"github.com/gabapcia/waveportal/internal/portal"
	"github.com/gabapcia/waveportal/internal/wavefeed"

	"github.com/urfave/cli/v3"
)

func printWave(w io.Writer, r wavefeed.Record) {
	fmt.Fprintf(w, "%s  %s  %s\n", r.OccurredAt.UTC().Format(time.RFC3339), r.Author, r.Message)
}

// feedCommand returns a CLI command that syncs the feed and keeps printing
// new waves until it receives an interrupt (SIGINT or SIGTERM).
//
// Usage example:
//
//	waveportal feed --refresh 2s
func feedCommand(p portal.Service) *cli.Command {
	return &cli.Command{
		Name:        "feed",
		Description: "Loads the wave history and follows new waves as they are mined.",
		Usage:       "Prints every wave, newest first, then streams new ones. Terminates gracefully on Ctrl+C or termination signals.",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "refresh",
				Usage: "How often the feed is checked for new waves",
				Value: time.Second,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := p.Start(ctx); err != nil {
				return err
			}
			defer p.Close()

			out := c.Root().Writer
			if _, ok := p.Address(); !ok {
				if p.HasProvider() {
					fmt.Fprintln(out, "no wallet connected, run `waveportal connect` first")
				} else {
					fmt.Fprintln(out, "no wallet provider configured, set WAVEPORTAL_PROVIDER_URL")
				}
			}

			waves := p.Waves()
			for _, r := range waves {
				printWave(out, r)
			}

			shown := len(waves)
			for chflow.Sleep(ctx, c.Duration("refresh")) {
				waves = p.Waves()
				// newest first, so unseen records lead the slice
				for i := len(waves) - shown - 1; i >= 0; i-- {
					printWave(out, waves[i])
				}
				shown = len(waves)
			}

			return nil
		},
	}
}
