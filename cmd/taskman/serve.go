package main

import (
	"fmt"
	"os"

	"github.com/raisa-SSTL/taskman-api/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Taskman API server",
	Long: `Start the Taskman API server.

Examples:
  taskman serve                 # Run with configuration defaults
  taskman serve --port 8080     # Override port

Environment variables:
  TASKMAN_SERVER_PORT       Server port (default: 8270)
  TASKMAN_DATABASE_DRIVER   Database driver: sqlite, postgres
  TASKMAN_DATABASE_DSN      Database connection string
  TASKMAN_AUTH_JWT_SECRET   JWT signing secret
  ADMIN_EMAIL               Bootstrap admin email
  ADMIN_PASSWORD            Bootstrap admin password`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := server.Config{
		Port:    servePort,
		Version: Version,
	}

	if err := server.RunWithSignalHandling(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
