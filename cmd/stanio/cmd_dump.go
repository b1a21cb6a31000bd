package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stanio/internal/rdump"
)

func newDumpCmd(a *app) *cobra.Command {
	var shapes bool
	cmd := &cobra.Command{
		Use:   "dump <data-file>",
		Short: "Decode a dump-format file and print it in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readLimited(args[0], a.cfg.MaxInputBytes)
			if err != nil {
				return err
			}
			m, err := rdump.Decode(string(data), args[0])
			if err != nil {
				return err
			}
			if shapes {
				for _, name := range m.Names() {
					v, _ := m.Get(name)
					fmt.Fprintf(a.stdout, "%s: %s %v\n", name, v.Kind(), v.Shape())
				}
				return nil
			}
			return rdump.Encode(a.stdout, m)
		},
	}
	cmd.Flags().BoolVar(&shapes, "shapes", false, "print entry kinds and shapes instead of values")
	return cmd
}
