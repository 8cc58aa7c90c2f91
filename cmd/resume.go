package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/app"
	"github.com/fakeyudi/cpwind/internal/output"
)

var resumeCmd = &cobra.Command{
	Use:   "resume [file]",
	Short: "Restart the timer of a paused file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctl *app.Controller) error {
			name, err := targetFile("resume", ctl.State(), args, false)
			if err != nil {
				return err
			}
			secs, err := ctl.OnResume(name)
			if err != nil {
				return timerError(name, err)
			}
			out.Success("Resumed %s after %s paused", name, output.Clock(seconds(secs)))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}
