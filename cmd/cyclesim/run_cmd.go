// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/db47h/cyclesim"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var runTrace bool

var runCmd = &cobra.Command{
	Use:   "run [design]",
	Short: "Elaborate a design and run it until done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDesign(args[0])
		if err != nil {
			return err
		}
		s, err := elaborator().Elaborate(d)
		if err != nil {
			return errors.Wrapf(err, "elaborate %s", args[0])
		}
		c := s.NewCircuit()
		w := cmd.OutOrStdout()
		if runTrace {
			c.AcceptHook(&tracePrinter{w: w})
		}
		if err = c.Reset(); err != nil {
			return err
		}
		if err = c.Run(cfg.maxCycles); err != nil {
			return errors.Wrapf(err, "run %s", args[0])
		}
		logger.Info("run complete", "design", args[0], "session", s.Session(), "cycles", c.Cycles())
		_, err = fmt.Fprintf(w, "%s: done in %d cycles\n", args[0], c.Cycles())
		return err
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runTrace, "trace", "t", false, "print the line trace of every cycle")
	rootCmd.AddCommand(runCmd)
}

// tracePrinter prints the circuit line trace after each tick.
type tracePrinter struct {
	w io.Writer
}

func (p *tracePrinter) Func(ctx cyclesim.HookCtx) {
	if ctx.Pos != cyclesim.HookPosAfterTick {
		return
	}
	if c, ok := ctx.Domain.(*cyclesim.Circuit); ok {
		fmt.Fprintf(p.w, "%3d: %s\n", ctx.Item, c.LineTrace())
	}
}
