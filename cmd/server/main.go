/*
main.go - Application entry point

PURPOSE:
  Starts the bed allocation server and exposes the planner as offline
  commands for layout files. Handles configuration, dependency injection,
  and graceful shutdown.

COMMANDS:
  serve      HTTP API over SQLite (config from env / .env)
  render     Print a layout as a tree
  suggest    Greedy best beds for one patient
  plan       Tree search over arrival batches
  simulate   Roll a hospital forward with the random or greedy policy

STARTUP SEQUENCE (serve):
  1. Load and validate config (viper)
  2. Build the zap logger
  3. Open the SQLite store
  4. Restore hospitals from snapshots, optionally seed the demo hospital
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Serve with an in-memory database and a demo hospital
  DB_PATH=":memory:" DEMO_HOSPITAL=true ./server serve

  # Rank beds for a patient
  ./server suggest --layout ward.yaml --patient patient.json -k 3

  # Plan three hours ahead
  ./server plan --demo --occupancy 0.9 --arrivals arrivals.json --forecast 2,1

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment settings
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "server",
		Short:        "Hospital bed allocation engine",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
