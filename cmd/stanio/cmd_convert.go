package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stanio/internal/datafile"
	"stanio/internal/rdump"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in-file> <out-file>",
		Short: "Convert a data file between JSON and dump format",
		Long: `Convert reads a data file and rewrites it under the target path.
Both sides dispatch on extension: .json means JSON, anything else dump
format.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readLimited(args[0], a.cfg.MaxInputBytes)
			if err != nil {
				return err
			}
			var m *rdump.Map
			if strings.EqualFold(filepath.Ext(args[0]), ".json") {
				m, err = datafile.ReadJSON(raw, args[0])
			} else {
				m, err = rdump.Decode(string(raw), args[0])
			}
			if err != nil {
				return err
			}
			if err := datafile.Write(args[1], m); err != nil {
				return err
			}
			a.log.Info("converted data file",
				zap.String("from", args[0]),
				zap.String("to", args[1]),
				zap.Int("entries", m.Len()),
			)
			return nil
		},
	}
}
