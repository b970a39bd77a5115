package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"noten/internal/config"
	"noten/internal/logger"
	"noten/internal/tui"
)

// app holds what every command needs once flags are parsed.
type app struct {
	cfg    *config.StructuredConfig
	log    *logger.Logger
	closer io.Closer
}

func (a *app) setup(cmd *cobra.Command, role string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	path := cfg.Log.Path
	if path == "" {
		path = logger.DefaultPath()
	}
	a.cfg = cfg
	a.log, a.closer = logger.NewFileLogger(role, path, cfg.LogLevel())
	a.log.Debug().Str("command", cmd.CommandPath()).Msg("starting")
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "noten [file]",
		Short: "Sticky notes on an infinite board, in the terminal",
		Long: `noten edits a board of sticky notes joined by arrows. Boards are saved
as JSON documents that other tools can read.

With a file argument the board is opened from that file, or started empty
when it does not exist yet.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			role := "noten"
			if cmd != cmd.Root() {
				role = "noten-" + cmd.Name()
			}
			return a.setup(cmd, role)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tui.Options{Config: a.cfg, Log: a.log}
			if len(args) == 1 {
				opts.File = args[0]
			}
			return tui.Run(cmd.Context(), opts)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}
