package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/forgo/quest/internal/app"
	"github.com/forgo/quest/internal/catalog"
	"github.com/forgo/quest/internal/config"
)

// cli holds the global flags and output streams shared by every command
type cli struct {
	out    io.Writer
	errOut io.Writer

	storeDriver string
	sqlitePath  string
	questsPath  string
	verbose     bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "questctl",
		Short: "Administer quest progression records",
		Long: `questctl reads and mutates user profiles, progress and guilds through the
same transactional services the API uses.

Configuration comes from the environment (and .env) exactly like the
server; --store, --sqlite-path and --quests override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.storeDriver, "store", "", "store driver override (memory, sqlite, redis, surrealdb)")
	root.PersistentFlags().StringVar(&c.sqlitePath, "sqlite-path", "", "sqlite database file override")
	root.PersistentFlags().StringVar(&c.questsPath, "quests", "", "quest feed path override")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log service activity to stderr")

	root.AddCommand(
		c.userCmd(),
		c.questCmd(),
		c.skillCmd(),
		c.guildCmd(),
		c.achievementsCmd(),
		c.tokenCmd(),
	)
	return root
}

// config loads configuration and applies flag overrides
func (c *cli) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.storeDriver != "" {
		if !config.KnownDriver(c.storeDriver) {
			return nil, fmt.Errorf("unknown store driver %q", c.storeDriver)
		}
		cfg.Store.Driver = c.storeDriver
	}
	if c.sqlitePath != "" {
		cfg.Store.SQLitePath = c.sqlitePath
	}
	if c.questsPath != "" {
		cfg.Quests.Path = c.questsPath
	}
	return cfg, nil
}

func (c *cli) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))
}

// services opens the store and builds the services. withQuests also loads
// the quest feed. The returned func releases everything.
func (c *cli) services(ctx context.Context, withQuests bool) (*app.Services, func(), error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}

	var quests *catalog.QuestCatalog
	if withQuests {
		quests, err = catalog.LoadQuests(cfg.Quests.Path)
		if err != nil {
			return nil, nil, err
		}
	}

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	svcs := app.NewServices(store, cfg, quests, c.logger())
	return svcs, func() {
		svcs.Close()
		_ = store.Close()
	}, nil
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
