package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3"
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clusterctl version",
		Args:  cobra.NoArgs,
		// The version needs no client.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			version := Version
			if info, ok := debug.ReadBuildInfo(); ok && version == "dev" {
				if v := info.Main.Version; v != "" && v != "(devel)" {
					version = v
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "clusterctl %s (%s)\n", version, runtime.Version())
		},
	}
}
