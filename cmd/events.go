package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/churnchart/core"
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/iocache"
	"github.com/huangsam/churnchart/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// eventsCmd is the parent command for event store management.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage the persisted event store.",
	Long: `Events are normalized activity records kept in a database so charts can be
drawn without the original files. The store lives in SQLite by default, or in
MySQL/PostgreSQL via --event-backend and --event-db-connect.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// eventsSetup validates config and opens the event store regardless of --source.
func eventsSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if cfg.Source == schema.DBSource {
		return nil // already initialized
	}
	if cfg.EventBackend == schema.NoneBackend {
		return errors.New("event commands require an event backend other than none")
	}
	return initStore(cfg.EventBackend, cfg.EventDBConnect)
}

// backendSetup resolves only the backend settings, for commands that never open the store.
func backendSetup(_ *cobra.Command, _ []string) error {
	if err := readConfigFile(); err != nil {
		return err
	}
	backend := schema.DatabaseBackend(viper.GetString("event-backend"))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid event backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("event-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}
	cfg.EventBackend = backend
	cfg.EventDBConnect = connStr
	return nil
}

// eventsImportCmd loads an activity file into the store.
var eventsImportCmd = &cobra.Command{
	Use:   "import [activity-file]",
	Short: "Import activity records into the event store.",
	Long: `Normalize an activity file and upsert its events into the store. Events are
keyed by id, so importing the same file twice keeps one copy of each.

Examples:
  churnchart events import activity.json
  churnchart events import activity.parquet --event-backend postgresql --event-db-connect "host=localhost dbname=churn"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: eventsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		run(core.ExecuteEventsImport, "Event import failed")
	},
}

// eventsStatusCmd reports what the store currently holds.
var eventsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show event store status.",
	PreRunE: eventsSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		store := storeManager.GetEventStore()
		if store == nil {
			contract.LogFatal("Event store unavailable", errors.New("store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get event store status", err)
		}
		iocache.PrintEventStatus(cmd.OutOrStdout(), status)
	},
}

// eventsClearCmd removes every stored event.
var eventsClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all stored events.",
	PreRunE: backendSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := iocache.ClearEvents(cfg.EventBackend, iocache.GetDBFilePath(), cfg.EventDBConnect); err != nil {
			contract.LogFatal("Failed to clear events", err)
		}
		cmd.Printf("Cleared events from %s backend\n", cfg.EventBackend)
	},
}

// eventsMigrateCmd applies or rolls back schema migrations.
var eventsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply event store schema migrations.",
	Long: `Bring the event store schema to --target-version. The default of -1 applies
every pending migration, and 0 rolls everything back.

Examples:
  churnchart events migrate
  churnchart events migrate --target-version 0 --event-backend mysql --event-db-connect "u:p@tcp(localhost:3306)/churn"`,
	PreRunE: backendSetup,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := iocache.MigrateEvents(os.Stdout, cfg.EventBackend, cfg.EventDBConnect, target); err != nil {
			contract.LogFatal("Migration failed", err)
		}
	},
}

// eventsExportCmd writes stored events back out as daily data points.
var eventsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored events as daily Parquet data points.",
	Long: `Aggregate every stored event by UTC day and write the data points to
--output-file. The file can be passed back to chart, buckets or trend.

Examples:
  churnchart events export --output-file points.parquet`,
	PreRunE: eventsSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := iocache.ExportEvents(rootCtx, cmd.OutOrStdout(), storeManager.GetEventStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Export failed", err)
		}
	},
}
