package cmd

import (
	"fmt"
	"os/exec"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolchainsCmd = &cobra.Command{
	Use:   "toolchains",
	Short: "List the extensions cpwind can build and run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "EXT\tTOOLCHAIN\tCOMMAND\tFOUND")
		for _, e := range registry.Entries() {
			argv := e.Spec.RunArgs("main"+e.Ext, "./main")
			if e.Spec.HasCompilePhase {
				argv = e.Spec.CompileArgs("main"+e.Ext, "./main")
			}
			found := "yes"
			if _, err := exec.LookPath(argv[0]); err != nil {
				found = "no"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Ext, e.Spec.Name, strings.Join(argv, " "), found)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(toolchainsCmd)
}
