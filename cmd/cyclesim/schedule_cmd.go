// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var scheduleFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in designs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, n := range sortedDesigns() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), n); err != nil {
				return err
			}
		}
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [design]",
	Short: "Elaborate a design and print its schedule",
	Long: `Elaborate a design and print its schedule. The format is one of:

  order        blocks in execution order
  constraints  ordering constraints between blocks, explicit ones marked with '*'
  nets         resolved nets as "writer -> readers"
  dot          the constraint graph in graphviz format`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDesign(args[0])
		if err != nil {
			return err
		}
		s, err := elaborator().Elaborate(d)
		if err != nil {
			return errors.Wrapf(err, "elaborate %s", args[0])
		}
		w := cmd.OutOrStdout()
		switch scheduleFormat {
		case "order":
			return s.WriteOrder(w)
		case "constraints":
			return s.WriteConstraints(w)
		case "nets":
			return s.WriteNets(w)
		case "dot":
			return s.WriteDot(w)
		}
		return errors.Errorf("unknown format %q", scheduleFormat)
	},
}

func init() {
	scheduleCmd.Flags().StringVarP(&scheduleFormat, "format", "f", "order", "output format: order, constraints, nets or dot")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scheduleCmd)
}
