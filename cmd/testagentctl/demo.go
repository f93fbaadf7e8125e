package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sdk "github.com/ashita-ai/testagent/sdk/go/testagent"
)

type concurrentFlags struct {
	streamDuration time.Duration
	pollInterval   time.Duration
}

func (f *concurrentFlags) register(cmd *cobra.Command, duration, interval time.Duration) {
	cmd.Flags().DurationVar(&f.streamDuration, "stream-duration", duration, "How long to stream trace events")
	cmd.Flags().DurationVar(&f.pollInterval, "poll-interval", interval, "How often to poll driver identity while streaming")
}

func newDemoCmd(g *globals) *cobra.Command {
	var f concurrentFlags
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Exercise every RPC: identity, service cycles, engagement, streaming, concurrency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := &printer{w: cmd.OutOrStdout()}
			return withClient(g, func(c *sdk.Client) error {
				return runDemo(cmd.Context(), c, p, f)
			})
		},
	}
	f.register(cmd, 10*time.Second, 2*time.Second)
	return cmd
}

func newConcurrentCmd(g *globals) *cobra.Command {
	var f concurrentFlags
	cmd := &cobra.Command{
		Use:   "concurrent",
		Short: "Stream trace events while polling driver identity concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := &printer{w: cmd.OutOrStdout()}
			return withClient(g, func(c *sdk.Client) error {
				return runConcurrent(cmd.Context(), c, p, f)
			})
		},
	}
	f.register(cmd, 15*time.Second, 3*time.Second)
	return cmd
}

func runDemo(ctx context.Context, c *sdk.Client, p *printer, f concurrentFlags) error {
	p.Printf("Starting TestAgent demo\n")

	p.Printf("\n1. Basic information\n")
	if err := printInfo(ctx, c, p); err != nil {
		return err
	}

	p.Printf("\n2. Service management\n")
	for _, st := range []sdk.ServiceType{sdk.Trajectory, sdk.Navigation, sdk.Inference} {
		p.Printf("\nTesting %s:\n", st)
		if err := printServiceStatus(ctx, c, p, st); err != nil {
			return err
		}
		if err := c.StartService(ctx, st); err != nil {
			return err
		}
		if err := printServiceStatus(ctx, c, p, st); err != nil {
			return err
		}
		if err := c.StopService(ctx, st); err != nil {
			return err
		}
		if err := printServiceStatus(ctx, c, p, st); err != nil {
			return err
		}
	}

	p.Printf("\n3. Driver engagement\n")
	if err := printIntegration(ctx, c, p); err != nil {
		return err
	}
	if err := c.Engage(ctx); err != nil {
		return err
	}
	if err := printIntegration(ctx, c, p); err != nil {
		return err
	}
	if err := c.Disengage(ctx); err != nil {
		return err
	}
	if err := printIntegration(ctx, c, p); err != nil {
		return err
	}

	p.Printf("\n4. Trace streaming\n")
	if _, err := streamEvents(ctx, c, p, 5, 10*time.Second, func(n int, ev *sdk.TraceEvent) {
		printEvent(p, n, ev)
	}); err != nil {
		return err
	}

	p.Printf("\n5. Concurrent streaming and polling\n")
	if err := runConcurrent(ctx, c, p, f); err != nil {
		return err
	}

	p.Printf("\nDemo completed successfully!\n")
	return nil
}

type logEntry struct {
	n  int
	ev *sdk.TraceEvent
}

// runConcurrent streams trace events for f.streamDuration while a poller
// fetches the four identity values in parallel every f.pollInterval. The
// stream ending stops the poller.
func runConcurrent(ctx context.Context, c *sdk.Client, p *printer, f concurrentFlags) error {
	p.Printf("Streaming for %s, polling every %s\n", f.streamDuration, f.pollInterval)
	ctx, cancel := context.WithTimeout(ctx, f.streamDuration)
	defer cancel()

	// Roughly two events per second of streaming.
	maxEvents := max(1, int(f.streamDuration.Seconds()*2))
	entries := make(chan logEntry, 64)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(entries)
		defer cancel()
		_, err := streamEvents(gctx, c, p, maxEvents, f.streamDuration+5*time.Second, func(n int, ev *sdk.TraceEvent) {
			select {
			case entries <- logEntry{n: n, ev: ev}:
			case <-gctx.Done():
			}
		})
		if gctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		for e := range entries {
			p.Printf("[LOG] Event %d: %s - %s\n", e.n, e.ev.GetSeverity(), e.ev.GetMessage())
		}
		return nil
	})

	g.Go(func() error {
		for poll := 1; ; poll++ {
			pollIdentity(gctx, c, p, poll)
			select {
			case <-gctx.Done():
				return nil
			case <-time.After(f.pollInterval):
			}
		}
	})

	err := g.Wait()
	p.Printf("Concurrent streaming and polling completed\n")
	return err
}

// pollIdentity fetches the four identity values in parallel. Failures are
// printed, not returned.
func pollIdentity(ctx context.Context, c *sdk.Client, p *printer, poll int) {
	p.Printf("[INFO POLL #%d] Checking server status...\n", poll)

	callCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var g errgroup.Group
	report := func(name string, fn func() (any, error)) {
		g.Go(func() error {
			v, err := fn()
			if err != nil {
				if ctx.Err() == nil {
					p.Printf("[INFO POLL #%d] error getting %s: %v\n", poll, name, err)
				}
				return nil
			}
			p.Printf("[INFO POLL #%d] %s: %v\n", poll, name, v)
			return nil
		})
	}
	report("mock", func() (any, error) { return c.IsMock(callCtx) })
	report("version", func() (any, error) { return c.DriverVersion(callCtx) })
	report("status", func() (any, error) { return c.IntegrationStatus(callCtx) })
	report("model", func() (any, error) { return c.ModelID(callCtx) })
	_ = g.Wait()

	p.Printf("[INFO POLL #%d] Complete\n", poll)
}
