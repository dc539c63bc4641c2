package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/appengine-ltd/craft-it/internal/content"
	"github.com/appengine-ltd/craft-it/internal/crafting"
	"github.com/appengine-ltd/craft-it/internal/forage"
	"github.com/appengine-ltd/craft-it/internal/shell"
	"github.com/appengine-ltd/craft-it/internal/ui"
	"github.com/appengine-ltd/craft-it/internal/update"
)

// version, commit, date are injected at build time (see .goreleaser.yaml).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		catalogPaths []string
		savePath     string
		verbose      bool
		plain        bool
		noUpdate     bool
		worldSeed    int64
	)

	root := &cobra.Command{
		Use:           "craft-it",
		Short:         "Tiered crafting sandbox with provenance tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			reg, err := buildRegistry(catalogPaths)
			if err != nil {
				return err
			}

			var scattered map[crafting.ItemID]int
			if worldSeed != 0 {
				scattered, err = forage.Scatter(reg, forage.Options{
					Seed:      worldSeed,
					CraftedAt: time.Now().Unix(),
				})
				if err != nil {
					return err
				}
				log.Info("scattered world drops", zap.Int64("seed", worldSeed))
			}

			opts := []shell.Option{shell.WithLogger(log)}
			if savePath != "" {
				opts = append(opts, shell.WithSavePath(savePath))
			}
			session := shell.New(reg, opts...)

			if plain {
				return runREPL(cmd, session, scattered)
			}
			cfg := ui.AppConfig{
				Version:   version,
				Commit:    commit,
				BuildDate: date,
				NoUpdate:  noUpdate,
			}
			if scattered != nil {
				cfg.Greeting = "You look around and find: " + forage.Describe(scattered) + "."
			}
			app := ui.NewApp(cfg, session)
			return app.Run()
		},
	}

	root.PersistentFlags().StringSliceVar(&catalogPaths, "catalog", nil, "YAML catalog packs to load on top of the builtin content")
	root.PersistentFlags().StringVar(&savePath, "save", "", "default snapshot path for save/load")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity")
	root.Flags().BoolVar(&plain, "plain", false, "line-mode REPL instead of the full-screen UI")
	root.Flags().BoolVar(&noUpdate, "no-update", false, "disable update checks")
	root.Flags().Int64Var(&worldSeed, "world-seed", 0, "seed a starting scatter of world resources (0 starts empty)")

	root.AddCommand(versionCmd(), checkCmd(&catalogPaths), updateCmd())
	return root
}

func updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Download and install the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := update.Apply(version)
			if err != nil {
				return err
			}
			if msg != "" {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "craft-it %s (%s) %s\n", version, commit, date)
		},
	}
}

// checkCmd loads the given catalogs and reports whether they validate,
// without starting a session.
func checkCmd(catalogPaths *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate catalog packs and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry(*catalogPaths)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d items, %d materials\n",
				len(reg.AllItems()), len(reg.AllMaterials()))
			return nil
		},
	}
}

func buildRegistry(catalogPaths []string) (*crafting.Registry, error) {
	reg := crafting.NewRegistry()
	content.RegisterBuiltin(reg)
	for _, path := range catalogPaths {
		catalog, err := content.LoadCatalogFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
		if err := catalog.Apply(reg); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}
	return reg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func runREPL(cmd *cobra.Command, session *shell.Session, scattered map[crafting.ItemID]int) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "craft-it %s. Type 'help' for commands, 'quit' to leave.\n", version)
	if scattered != nil {
		fmt.Fprintf(out, "You look around and find: %s.\n", forage.Describe(scattered))
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		res := session.Execute(scanner.Text())
		if res.Message != "" {
			fmt.Fprintln(out, res.Message)
		}
		if res.Quit {
			return nil
		}
	}
}
