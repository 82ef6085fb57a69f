package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var version = "dev" // Injected at build time via ldflags

var log = commonlog.GetLogger("palettegen.cli")

func newRootCmd() *cobra.Command {
	var verbose int

	root := &cobra.Command{
		Use:           "palettegen",
		Short:         "Generate colors that stay distinct from an existing palette",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// warnings by default, then notice, info and debug
			commonlog.Configure(verbose-1, nil)
		},
	}
	root.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log verbosity (repeat for more)")

	root.AddCommand(
		newRunCmd(),
		newConvertCmd(),
		newDistanceCmd(),
		newSimulateCmd(),
		newFmtCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
