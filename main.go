// Command uuidrenamer renames files to random UUIDs, keeping each file's
// extension and directory.
//
// With no path arguments it opens a drop window; files and folders dropped
// on it are renamed. With paths (or --no-gui) it renames them in the
// terminal and exits non-zero if any rename failed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"UUIDRenamer/internal/access"
	"UUIDRenamer/internal/config"
	"UUIDRenamer/internal/engine"
	"UUIDRenamer/internal/logging"
	"UUIDRenamer/internal/naming"
	"UUIDRenamer/internal/shell"
)

const appID = "io.github.uuidrenamer"

// errFailures marks a terminal batch with at least one failed rename.
var errFailures = errors.New("some files could not be renamed")

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errFailures) {
			fmt.Fprintf(os.Stderr, "uuidrenamer: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	var (
		configPath string
		noGUI      bool
	)

	cmd := &cobra.Command{
		Use:           "uuidrenamer [paths...]",
		Short:         "Rename files to random UUIDs, keeping their extensions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := cfg.ApplyFile(configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logging.New(&cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			eng := newEngine(&cfg, log)
			if len(args) == 0 && !noGUI {
				log.Info().Bool("dry_run", cfg.DryRun).Msg("opening drop window")
				shell.NewWindow(app.NewWithID(appID), eng, log.Logger).ShowAndRun()
				return nil
			}
			if len(args) == 0 {
				return errors.New("no paths given")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := shell.RunTerminal(ctx, eng, args, cmd.OutOrStdout(), logging.IsTerminal(os.Stdout), log.Logger)
			if err != nil {
				return err
			}
			if len(res.Failed) > 0 {
				return errFailures
			}
			return nil
		},
	}

	cmd.SetContext(context.Background())
	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML or TOML config file")
	f.BoolVar(&noGUI, "no-gui", false, "never open the drop window")
	cfg.BindFlags(f)
	return cmd
}

func newEngine(cfg *config.Config, log *logging.Logger) *engine.Engine {
	var acq access.Acquirer = access.Nop{}
	if cfg.Access == config.AccessHold {
		acq = access.Hold{}
	}
	return engine.New(engine.Options{
		Generator:   naming.UUIDGenerator{Lower: cfg.NameCase == config.CaseLower},
		Acquirer:    acq,
		Workers:     cfg.Workers,
		MaxAttempts: cfg.MaxAttempts,
		DryRun:      cfg.DryRun,
		Log:         log.Logger,
	})
}
