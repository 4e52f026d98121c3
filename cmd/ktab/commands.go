package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tsatke/ktap"
)

// tableName is the name that the table of a data file gets in the session.
const tableName = "data"

type app struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	cfg     config
	log     zerolog.Logger
	session *ktap.Session
}

func newRootCmd(a *app) *cobra.Command {
	v := viper.New()
	rootCmd := &cobra.Command{
		Use:           AppName,
		Short:         "Inspect tables built from YAML data and symbol files",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(v, cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.session != nil {
				a.session.Close()
			}
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	addConfigFlags(rootCmd)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "dump FILE",
			Short: "Print all entries of the table in FILE",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.load(args[0]); err != nil {
					return err
				}
				return a.session.Dump(tableName)
			},
		},
		&cobra.Command{
			Use:   "histogram FILE",
			Short: "Print the distribution of the numbers in the table in FILE",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.load(args[0]); err != nil {
					return err
				}
				err := a.session.Histogram(tableName)
				if errors.Is(err, ktap.ErrHistogramType) {
					// the error line is already part of the output
					a.log.Warn().Err(err).Str("file", args[0]).Msg("histogram")
					return nil
				}
				return err
			},
		},
		&cobra.Command{
			Use:   "stats FILE",
			Short: "Print the shape of the table in FILE",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.load(args[0]); err != nil {
					return err
				}
				stats, err := a.session.Stats(tableName)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "%s memory=%d\n", stats, a.session.MemoryInUse())
				return nil
			},
		},
		&cobra.Command{
			Use:   "ffi FILE",
			Short: "Load the symbols in FILE and list the C functions of ffi.C",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.session.LoadSymbols(args[0]); err != nil {
					return err
				}
				return a.session.DumpSymbols(a.stdout)
			},
		},
	)
	return rootCmd
}

func (a *app) setup(v *viper.Viper, cmd *cobra.Command) error {
	cfg, err := loadConfig(v, a.fs, cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = newLogger(a.stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	opts := []ktap.Option{
		ktap.WithFs(a.fs),
		ktap.WithStdout(a.stdout),
		ktap.WithStderr(a.stderr),
		ktap.WithLogger(a.log),
		ktap.WithMemoryLimit(cfg.MemLimit),
		ktap.WithMaxStackSize(cfg.MaxStack),
	}
	if cfg.Seed != 0 {
		opts = append(opts, ktap.WithSeed(cfg.Seed))
	}
	a.session, err = ktap.NewSession(opts...)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	a.log.Debug().Interface("config", cfg).Msg("session created")
	return nil
}

func (a *app) load(path string) error {
	if err := a.session.LoadTable(tableName, path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
