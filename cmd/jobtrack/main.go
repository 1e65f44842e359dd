// Command jobtrack manages the contact list from the terminal, reading and
// writing the same store the API server uses.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kiranshivaraju/jobtracker/internal/cache"
	"github.com/kiranshivaraju/jobtracker/internal/config"
	"github.com/kiranshivaraju/jobtracker/internal/contacts"
	"github.com/kiranshivaraju/jobtracker/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cli carries per-invocation settings. Each root command owns its own viper
// instance so flags and JOBTRACK_* variables never leak between runs.
type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix("JOBTRACK")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "jobtrack",
		Short:         "Track job applications, interviews and follow-ups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("backend", "", "store backend: file, sqlite, postgres (default from STORE_BACKEND)")
	pf.String("data-file", "", "JSON document path for the file backend")
	pf.String("sqlite-path", "", "database path for the sqlite backend")
	pf.String("database-url", "", "connection URL for the postgres backend")
	pf.String("document", "", "document name for the sqlite and postgres backends")
	pf.String("migrations", "migrations", "migrations directory for the postgres backend")
	pf.Bool("json", false, "output JSON")
	for _, name := range []string{"backend", "data-file", "sqlite-path", "database-url", "document", "migrations", "json"} {
		_ = c.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		c.listCmd(),
		c.showCmd(),
		c.statsCmd(),
		c.exportCmd(),
		c.migrateCmd(),
		c.archiveCmd(),
		c.deleteCmd(),
	)
	return root
}

// config layers flag and JOBTRACK_* overrides on top of the server's
// environment configuration.
func (c *cli) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if b := c.v.GetString("backend"); b != "" {
		cfg.Store.Backend = strings.ToLower(b)
	}
	if f := c.v.GetString("data-file"); f != "" {
		cfg.Store.DataFile = f
	}
	if p := c.v.GetString("sqlite-path"); p != "" {
		cfg.Store.SQLitePath = p
	}
	if u := c.v.GetString("database-url"); u != "" {
		cfg.Database.URL = u
	}
	if d := c.v.GetString("document"); d != "" {
		cfg.Store.DocumentName = d
	}
	if cfg.Store.Backend == config.BackendMemory {
		return nil, fmt.Errorf("the memory backend does not persist between commands")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *cli) withService(ctx context.Context, fn func(context.Context, *contacts.Service) error) error {
	cfg, err := c.config()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st, closeStore, err := store.Open(ctx, cfg, c.v.GetString("migrations"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	return fn(ctx, contacts.NewService(st, cache.Noop{}))
}
