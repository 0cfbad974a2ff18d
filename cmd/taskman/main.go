package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "taskman",
	Short: "Taskman - multi-tenant task management API",
	Long:  `Taskman runs a task management API where admins manage their own tasks and employees, assign tasks, and track progress through dashboards.`,
	Example: `  # Start the API server on the default port
  taskman serve

  # Start on a custom port
  taskman serve --port 8080`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
