// Command stanio reads, validates, and converts the text files exchanged
// with a CmdStan-style sampling engine: run-output CSV files, dump-format
// data files, and metric files.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stanio/internal/config"
	"stanio/internal/logging"
	"stanio/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the loaded configuration and logger to every subcommand.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

// run executes the CLI with injected writers so tests can capture output.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, log: zap.NewNop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	var cfgPath, logLevel string
	root := &cobra.Command{
		Use:          "stanio",
		Short:        "Read, validate, and convert sampling-engine data files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newCheckCmd(a),
		newMetricCmd(a),
		newDumpCmd(a),
		newConvertCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stanio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.Current())
		},
	}
}
