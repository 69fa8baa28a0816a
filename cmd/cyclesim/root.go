// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/db47h/cyclesim"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

type config struct {
	envFile   string
	seed      int64
	maxCycles uint64
	logLevel  string
	logFile   string
	strict    bool
}

var (
	cfg    config
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// env variables, by flag name
var envVars = map[string]string{
	"seed":       "CYCLESIM_SEED",
	"max-cycles": "CYCLESIM_MAX_CYCLES",
	"log-level":  "CYCLESIM_LOG_LEVEL",
	"log-file":   "CYCLESIM_LOG_FILE",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cyclesim",
	Short: "Elaborate and simulate cycle-level hardware designs.",
	Long: `cyclesim elaborates the built-in demo designs into a static schedule of ` +
		`update blocks, prints the schedule and its ordering constraints, and runs ` +
		`the resulting circuits cycle by cycle.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnv(cmd, cfg.envFile); err != nil {
			return err
		}
		l, err := newLogger(cfg.logLevel, cfg.logFile)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfg.envFile, "env-file", ".env", "load settings from this file if it exists")
	f.Int64Var(&cfg.seed, "seed", -1, "seed for random tie-breaking of independent blocks; negative for declaration order")
	f.Uint64Var(&cfg.maxCycles, "max-cycles", 100, "maximum number of cycles to run")
	f.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.StringVar(&cfg.logFile, "log-file", "", "also write JSON logs to this file")
	f.BoolVar(&cfg.strict, "strict", false, "fail when update blocks access undeclared signals")
}

// loadEnv sets every flag not given on the command line from the environment,
// or from the env file.
func loadEnv(cmd *cobra.Command, file string) error {
	vars, err := godotenv.Read(file)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) || cmd.Flags().Changed("env-file") {
			return errors.Wrapf(err, "load %s", file)
		}
		vars = nil
	}
	names := make([]string, 0, len(envVars))
	for n := range envVars {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			continue
		}
		v, ok := os.LookupEnv(envVars[n])
		if !ok {
			v, ok = vars[envVars[n]]
		}
		if !ok {
			continue
		}
		if err := cmd.Flags().Set(n, v); err != nil {
			return errors.Wrapf(err, "%s", envVars[n])
		}
	}
	return nil
}

// newLogger returns a logger writing text to stderr and, if file is not
// empty, JSON to file.
func newLogger(level, file string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}
	if file != "" {
		f, err := os.Create(file)
		if err != nil {
			return nil, errors.Wrap(err, "create log file")
		}
		atexit.Register(func() {
			if err := f.Close(); err != nil {
				panic(err)
			}
		})
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
	}
	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// elaborator returns an Elaborator configured from the command line.
func elaborator() cyclesim.Elaborator {
	e := cyclesim.MakeElaborator().WithLogger(logger)
	if cfg.seed >= 0 {
		e = e.WithTieBreak(cyclesim.RandomTieBreak(uint64(cfg.seed)))
	}
	if cfg.strict {
		e = e.WithStrictAccess()
	}
	return e
}

func designNames() string {
	return strings.Join(sortedDesigns(), ", ")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
