package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/samirrijal/questmap/internal/adapters/postgres"
	"github.com/samirrijal/questmap/internal/pkg/config"
	"github.com/samirrijal/questmap/internal/pkg/logging"
)

var (
	migrationsDir string
	steps         int
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the QuestMap database schema",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runUp,
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations, newest first",
	RunE:  runDown,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE:  runStatus,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&migrationsDir, "dir", "d", "migrations", "Directory holding NNN_name.up.sql / NNN_name.down.sql files")
	downCmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back (0 = all)")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// migration is one versioned schema change.
type migration struct {
	Version string // e.g. "001_catalog"
	Up      string
	Down    string
}

// loadMigrations reads *.up.sql files from dir in lexical order and pairs each with its .down.sql.
func loadMigrations(dir string) ([]migration, error) {
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	if len(ups) == 0 {
		return nil, fmt.Errorf("no migrations found in %s", dir)
	}
	sort.Strings(ups)

	out := make([]migration, 0, len(ups))
	for _, up := range ups {
		version := strings.TrimSuffix(filepath.Base(up), ".up.sql")
		m := migration{Version: version, Up: up}
		down := filepath.Join(dir, version+".down.sql")
		if _, err := os.Stat(down); err == nil {
			m.Down = down
		}
		out = append(out, m)
	}
	return out, nil
}

func connect(ctx context.Context) (*postgres.DB, error) {
	cfg, err := config.Load("questmap-migrate")
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	if _, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	return db, nil
}

func appliedVersions(ctx context.Context, db *postgres.DB) (map[string]bool, error) {
	rows, err := db.Pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list applied: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// apply runs one SQL file and records or forgets its version in the same transaction.
func apply(ctx context.Context, db *postgres.DB, file, version string, up bool) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	return db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", file, err)
		}
		var bookkeeping string
		if up {
			bookkeeping = `INSERT INTO schema_migrations (version) VALUES ($1)`
		} else {
			bookkeeping = `DELETE FROM schema_migrations WHERE version = $1`
		}
		if _, err := tx.Exec(ctx, bookkeeping, version); err != nil {
			return fmt.Errorf("record %s: %w", version, err)
		}
		return nil
	})
}

func runUp(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	migrations, err := loadMigrations(migrationsDir)
	if err != nil {
		return err
	}
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := apply(ctx, db, m.Up, m.Version, true); err != nil {
			return err
		}
		slog.Info("migration applied", "version", m.Version)
		count++
	}

	slog.Info("migrations up to date", "applied", count, "total", len(migrations))
	return nil
}

func runDown(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	migrations, err := loadMigrations(migrationsDir)
	if err != nil {
		return err
	}
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	rolledBack := 0
	for i := len(migrations) - 1; i >= 0; i-- {
		if steps > 0 && rolledBack >= steps {
			break
		}
		m := migrations[i]
		if !applied[m.Version] {
			continue
		}
		if m.Down == "" {
			return fmt.Errorf("migration %s has no down file", m.Version)
		}
		if err := apply(ctx, db, m.Down, m.Version, false); err != nil {
			return err
		}
		slog.Info("migration rolled back", "version", m.Version)
		rolledBack++
	}

	slog.Info("rollback finished", "rolled_back", rolledBack)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	migrations, err := loadMigrations(migrationsDir)
	if err != nil {
		return err
	}
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", state, m.Version)
	}
	return nil
}
