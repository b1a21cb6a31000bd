package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stanio/internal/metricfile"
)

func newMetricCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metric <metric-file>",
		Short: "Print the inverse-metric shape of a JSON or dump metric file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readLimited(args[0], a.cfg.MaxInputBytes)
			if err != nil {
				return err
			}
			shape, err := metricfile.ShapeOf(args[0], data)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "inv_metric shape: %v\n", shape)
			return nil
		},
	}
}
