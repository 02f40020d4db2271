package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// commit is set at build time with -ldflags "-X .../cli.commit=...".
var commit = "unknown"

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if versionShort {
			cmd.Println(version)
			return
		}
		cmd.Printf("drive-etl %s\n  commit:   %s\n  go:       %s\n  platform: %s/%s\n",
			version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version")
	rootCmd.AddCommand(versionCmd)
}
