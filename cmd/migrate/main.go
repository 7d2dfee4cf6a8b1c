// Command migrate applies, reverts and inspects SQL migrations from a
// directory of <name>.up.sql / <name>.down.sql script pairs.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ayonsaha2011/libsql-orm/pkg/database"
	"github.com/ayonsaha2011/libsql-orm/pkg/logging"
	"github.com/ayonsaha2011/libsql-orm/pkg/migration"
)

const configFile = "libsql-orm.toml"

// Config selects the driver, the data source and the migrations directory.
type Config struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
	Dir    string `toml:"dir"`
}

func loadConfig() Config {
	// .env is optional; values from the config file override the environment.
	_ = godotenv.Load()

	cfg := Config{
		Driver: os.Getenv("LIBSQL_ORM_DRIVER"),
		DSN:    os.Getenv("LIBSQL_ORM_DSN"),
		Dir:    os.Getenv("LIBSQL_ORM_DIR"),
	}

	if data, err := os.ReadFile(configFile); err == nil {
		var fileCfg Config
		if err := toml.Unmarshal(data, &fileCfg); err == nil {
			if fileCfg.Driver != "" {
				cfg.Driver = fileCfg.Driver
			}
			if fileCfg.DSN != "" {
				cfg.DSN = fileCfg.DSN
			}
			if fileCfg.Dir != "" {
				cfg.Dir = fileCfg.Dir
			}
		}
	}

	if cfg.Driver == "" {
		cfg.Driver = "sqlite3"
	}
	if cfg.Dir == "" {
		cfg.Dir = "migrations"
	}
	return cfg
}

// loadMigrations reads <name>.up.sql / <name>.down.sql pairs from dir,
// ordered by name.
func loadMigrations(dir string) ([]migration.Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byName := make(map[string]*migration.Migration)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		var base, direction string
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			base, direction = strings.TrimSuffix(name, ".up.sql"), "up"
		case strings.HasSuffix(name, ".down.sql"):
			base, direction = strings.TrimSuffix(name, ".down.sql"), "down"
		default:
			continue
		}

		script, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		m, ok := byName[base]
		if !ok {
			m = &migration.Migration{Name: base}
			byName[base] = m
		}
		if direction == "up" {
			m.Up = string(script)
		} else {
			m.Down = string(script)
		}
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	migrations := make([]migration.Migration, 0, len(names))
	for _, n := range names {
		migrations = append(migrations, *byName[n])
	}
	return migrations, nil
}

func newManager(cfg Config) (*migration.Manager, *database.SQL, error) {
	db, err := database.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return migration.NewManager(db, migration.WithSink(logging.NewStd())), db, nil
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply all pending migrations in name order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			migrations, err := loadMigrations(cfg.Dir)
			if err != nil {
				return err
			}
			manager, db, err := newManager(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := manager.Run(cmd.Context(), migrations)
			if res != nil {
				color.Green("applied %d, skipped %d", res.Applied, res.Skipped)
				if res.Failed != "" {
					color.Red("failed at %s", res.Failed)
				}
			}
			return err
		},
	}
}

func newRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <name>",
		Short: "Revert one applied migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			migrations, err := loadMigrations(cfg.Dir)
			if err != nil {
				return err
			}
			var target *migration.Migration
			for i := range migrations {
				if migrations[i].Name == args[0] {
					target = &migrations[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("no migration named '%s' in %s", args[0], cfg.Dir)
			}

			manager, db, err := newManager(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := manager.Rollback(cmd.Context(), *target); err != nil {
				return err
			}
			color.Green("rolled back %s", target.Name)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			migrations, err := loadMigrations(cfg.Dir)
			if err != nil {
				return err
			}
			manager, db, err := newManager(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			records, err := manager.Applied(ctx)
			if err != nil {
				return err
			}
			applied := make(map[string]migration.Record, len(records))
			for _, r := range records {
				applied[r.Name] = r
			}

			for _, m := range migrations {
				if r, ok := applied[m.Name]; ok {
					color.Green("applied  %s (%s)", m.Name, r.AppliedAt.Format("2006-01-02 15:04:05"))
				} else {
					color.Yellow("pending  %s", m.Name)
				}
			}
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage database schema migrations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newApplyCmd(), newRollbackCmd(), newStatusCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
