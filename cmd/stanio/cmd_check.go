package main

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stanio/internal/runcsv"
	"stanio/pkg/api"
)

func newCheckCmd(a *app) *cobra.Command {
	var optimize, noSampling bool
	cmd := &cobra.Command{
		Use:   "check <run-output.csv>",
		Short: "Validate a run-output file and print its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := readLimited(path, a.cfg.MaxInputBytes)
			if err != nil {
				return err
			}
			opts := api.CheckOptions{
				Sampling:   a.cfg.Check.Sampling && !noSampling,
				Optimizing: a.cfg.Check.Optimizing || optimize,
			}
			if opts.Optimizing {
				opts.Sampling = false
			}
			md, err := runcsv.Check(bytes.NewReader(data), path, opts)
			if err != nil {
				return err
			}
			a.log.Debug("scan sections",
				zap.Int("config_lines", md.Stats.ConfigLines),
				zap.Int("warmup_lines", md.Stats.WarmupLines),
				zap.Int("metric_lines", md.Stats.MetricLines),
				zap.Int("draw_lines", md.Stats.DrawLines),
			)
			printMetadata(a, path, md)
			return nil
		},
	}
	cmd.Flags().BoolVar(&optimize, "optimize", false, "expect a single optimization row")
	cmd.Flags().BoolVar(&noSampling, "no-sampling", false, "skip the adaptation/metric section")
	return cmd
}

func printMetadata(a *app, path string, md *runcsv.Metadata) {
	fmt.Fprintf(a.stdout, "%s: ok\n", path)
	fmt.Fprintf(a.stdout, "columns: %d  params: %d  metric: %s  draws: %d\n",
		len(md.ColumnNames), md.NumParams, md.Metric, md.Draws)
	if md.StepSize != 0 {
		fmt.Fprintf(a.stdout, "step size: %g\n", md.StepSize)
	}
	if md.DataFile != "" {
		fmt.Fprintf(a.stdout, "data file: %s\n", md.DataFile)
	}
	if len(md.Config) > 0 {
		keys := make([]string, 0, len(md.Config))
		for k := range md.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(a.stdout, "config keys: %s\n", strings.Join(keys, ", "))
	}
}
