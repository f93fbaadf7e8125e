// Command testagentctl is a command-line client for the TestAgentService.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sdk "github.com/ashita-ai/testagent/sdk/go/testagent"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(1)
	}
}

// globals holds the persistent connection flags.
type globals struct {
	host        string
	port        int
	dialTimeout time.Duration
}

func (g *globals) address() string {
	return net.JoinHostPort(g.host, strconv.Itoa(g.port))
}

func (g *globals) connect() (*sdk.Client, error) {
	return sdk.NewClient(sdk.Config{
		Address:     g.address(),
		DialTimeout: g.dialTimeout,
	})
}

// printer serializes output from concurrent goroutines.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:           "testagentctl",
		Short:         "Client for the mock driver TestAgentService",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&g.host, "host", "localhost", "Server host")
	cmd.PersistentFlags().IntVar(&g.port, "port", 50051, "Server port")
	cmd.PersistentFlags().DurationVar(&g.dialTimeout, "dial-timeout", 5*time.Second, "Time allowed to reach the server")

	cmd.AddCommand(
		newInfoCmd(g),
		newStatusCmd(g),
		newServiceCmd(g, "start", "Start a driver sub-service", (*sdk.Client).StartService),
		newServiceCmd(g, "stop", "Stop a driver sub-service", (*sdk.Client).StopService),
		newEngageCmd(g, "engage", "Engage the driver", (*sdk.Client).Engage),
		newEngageCmd(g, "disengage", "Disengage the driver", (*sdk.Client).Disengage),
		newStreamCmd(g),
		newDemoCmd(g),
		newConcurrentCmd(g),
	)
	return cmd
}

// withClient connects, runs fn, and closes the connection.
func withClient(g *globals, fn func(*sdk.Client) error) error {
	c, err := g.connect()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()
	return fn(c)
}
