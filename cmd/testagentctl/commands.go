package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	sdk "github.com/ashita-ai/testagent/sdk/go/testagent"
)

func newInfoCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show mock mode, driver version, integration state, and model id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := &printer{w: cmd.OutOrStdout()}
			return withClient(g, func(c *sdk.Client) error {
				return printInfo(cmd.Context(), c, p)
			})
		},
	}
}

func newStatusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status <service>",
		Short: "Show the run state of a sub-service (trajectory, navigation, inference)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := sdk.ParseServiceType(args[0])
			if err != nil {
				return err
			}
			p := &printer{w: cmd.OutOrStdout()}
			return withClient(g, func(c *sdk.Client) error {
				return printServiceStatus(cmd.Context(), c, p, st)
			})
		},
	}
}

func newServiceCmd(g *globals, use, short string, op func(*sdk.Client, context.Context, sdk.ServiceType) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <service>",
		Short: short + " (trajectory, navigation, inference)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := sdk.ParseServiceType(args[0])
			if err != nil {
				return err
			}
			p := &printer{w: cmd.OutOrStdout()}
			return withClient(g, func(c *sdk.Client) error {
				if err := op(c, cmd.Context(), st); err != nil {
					return err
				}
				p.Printf("Service %s: %s requested\n", st, use)
				return printServiceStatus(cmd.Context(), c, p, st)
			})
		},
	}
}

func newEngageCmd(g *globals, use, short string, op func(*sdk.Client, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := &printer{w: cmd.OutOrStdout()}
			return withClient(g, func(c *sdk.Client) error {
				if err := op(c, cmd.Context()); err != nil {
					return err
				}
				return printIntegration(cmd.Context(), c, p)
			})
		},
	}
}

func newStreamCmd(g *globals) *cobra.Command {
	var maxEvents int
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Print trace events from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := &printer{w: cmd.OutOrStdout()}
			return withClient(g, func(c *sdk.Client) error {
				_, err := streamEvents(cmd.Context(), c, p, maxEvents, timeout, func(n int, ev *sdk.TraceEvent) {
					printEvent(p, n, ev)
				})
				return err
			})
		},
	}
	cmd.Flags().IntVar(&maxEvents, "max-events", 10, "Stop after this many events; 0 waits for the server to end the stream")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Stop after this long")
	return cmd
}

func printInfo(ctx context.Context, c *sdk.Client, p *printer) error {
	mock, err := c.IsMock(ctx)
	if err != nil {
		return err
	}
	mode := "disabled"
	if mock {
		mode = "enabled"
	}
	p.Printf("Mock mode: %s\n", mode)

	ver, err := c.DriverVersion(ctx)
	if err != nil {
		return err
	}
	p.Printf("Driver version: %s\n", ver)

	if err := printIntegration(ctx, c, p); err != nil {
		return err
	}

	model, err := c.ModelID(ctx)
	if err != nil {
		return err
	}
	p.Printf("Model ID: %s\n", model)
	return nil
}

func printIntegration(ctx context.Context, c *sdk.Client, p *printer) error {
	s, err := c.IntegrationStatus(ctx)
	if err != nil {
		return err
	}
	p.Printf("Integration status: %s\n", s)
	return nil
}

func printServiceStatus(ctx context.Context, c *sdk.Client, p *printer, st sdk.ServiceType) error {
	s, err := c.ServiceStatus(ctx, st)
	if err != nil {
		return err
	}
	p.Printf("Service %s status: %s\n", st, s)
	return nil
}

func printEvent(p *printer, n int, ev *sdk.TraceEvent) {
	msg := ev.GetMessage()
	if msg == "" {
		msg = "No message"
	}
	p.Printf("  Event %d:\n    Timestamp: %d ns\n    Groups: %d\n    Severity: %s\n    Type: %s\n    Message: %s\n\n",
		n, ev.GetTimestampNs(), ev.GetGroupsMask(), ev.GetSeverity(), ev.GetEventType(), msg)
}

// streamEvents runs one trace stream, bounded by maxEvents and timeout, and
// calls fn for each event. Hitting the timeout is not an error.
func streamEvents(ctx context.Context, c *sdk.Client, p *printer, maxEvents int, timeout time.Duration, fn func(int, *sdk.TraceEvent)) (int, error) {
	p.Printf("Streaming trace events (max: %d, timeout: %s)...\n", maxEvents, timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	seen := 0
	n, err := c.StreamTrace(ctx, maxEvents, func(ev *sdk.TraceEvent) error {
		seen++
		fn(seen, ev)
		return nil
	})
	switch {
	case err == nil:
	case sdk.IsDeadlineExceeded(err) || (sdk.IsCanceled(err) && errors.Is(ctx.Err(), context.DeadlineExceeded)):
		p.Printf("Timeout reached (%s)\n", timeout)
	default:
		return n, fmt.Errorf("stream: %w", err)
	}
	p.Printf("Received %d trace events\n", n)
	return n, nil
}
