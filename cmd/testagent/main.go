// Command testagent runs the mock driver TestAgentService gRPC server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ashita-ai/testagent"
	"github.com/ashita-ai/testagent/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

type flags struct {
	address   string
	port      int
	adminPort int
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "testagent",
		Short: "Mock driver TestAgentService gRPC server",
		Long: `testagent serves the TestAgentService gRPC API backed by an in-memory mock
driver. Configuration comes from TESTAGENT_* environment variables (and a .env
file when present); flags override the environment.`,
		Example: `  testagent                      # localhost:50051
  testagent -p 8080              # localhost:8080
  testagent -a 0.0.0.0 -p 9090   # all interfaces, port 9090
  testagent --admin-port 8081    # also serve health, status, and SSE over HTTP`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.address, "address", "a", "localhost", "Server address")
	cmd.Flags().IntVarP(&f.port, "port", "p", 50051, "Server port (1-65535)")
	cmd.Flags().IntVar(&f.adminPort, "admin-port", 0, "Admin HTTP port; 0 disables the admin surface")
	return cmd
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("address") {
		cfg.Address = f.address
	}
	if cmd.Flags().Changed("port") {
		if f.port < 1 || f.port > 65535 {
			return config.Config{}, fmt.Errorf("port must be between 1 and 65535, got %d", f.port)
		}
		cfg.Port = f.port
	}
	if cmd.Flags().Changed("admin-port") {
		if f.adminPort < 0 || f.adminPort > 65535 {
			return config.Config{}, fmt.Errorf("admin port must be between 0 and 65535, got %d", f.adminPort)
		}
		cfg.AdminPort = f.adminPort
	}
	return cfg, nil
}

func serve(cmd *cobra.Command, f flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	app, err := testagent.New(
		testagent.WithConfig(cfg),
		testagent.WithLogger(logger),
		testagent.WithVersion(version),
	)
	if err != nil {
		return err
	}
	return app.Run(cmd.Context())
}
