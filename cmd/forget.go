package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/app"
)

var forgetCmd = &cobra.Command{
	Use:   "forget <file>",
	Short: "Stop tracking a file and drop its timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := filepath.Clean(args[0])
		return withController(cmd, func(ctl *app.Controller) error {
			if err := ctl.OnForget(name); err != nil {
				return timerError(name, err)
			}
			out.Success("Forgot %s", name)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}
