package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/app"
	"github.com/fakeyudi/cpwind/internal/output"
)

var pauseCmd = &cobra.Command{
	Use:   "pause [file]",
	Short: "Stop the timer of a file (defaults to the last generated file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctl *app.Controller) error {
			name, err := targetFile("pause", ctl.State(), args, false)
			if err != nil {
				return err
			}
			if err := ctl.OnPause(name); err != nil {
				return timerError(name, err)
			}
			active, _ := ctl.Active(name)
			out.Success("Paused %s at %s active", name, output.Clock(active))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
}
