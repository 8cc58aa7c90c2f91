package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/app"
	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/clipboard"
	"github.com/fakeyudi/cpwind/internal/dispatch"
	"github.com/fakeyudi/cpwind/internal/output"
)

var windCmd = &cobra.Command{
	Use:     "wind [file]",
	Aliases: []string{"copy"},
	Short:   "Copy a file to the clipboard and report its active time",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctl *app.Controller) error {
			name, err := targetFile("wind", ctl.State(), args, false)
			if err != nil {
				return err
			}
			res, err := ctl.OnWind(name)
			switch {
			case errors.Is(err, dispatch.ErrFileMissing):
				return clierr.FileMissing(name)
			case errors.Is(err, clipboard.ErrDisabled):
				return clierr.Wrap(clierr.ExitConfig, "Clipboard is turned off", err).
					WithHint("Set \"clipboard\" to auto, system or osc52 in the config")
			case err != nil:
				return clierr.Wrap(clierr.ExitGeneral, "Could not copy "+name, err)
			}

			out.Success("Copied %s (%d bytes, %s)", name, res.Bytes, res.Clipboard)
			if !res.Tracked {
				out.Info("%s is not tracked, no timer to report", name)
				return nil
			}
			if res.SecondsSinceLastWind < 0 {
				out.Info("Active %s", output.Clock(seconds(res.TotalActiveSeconds)))
			} else {
				out.Info("Active %s, %s since last wind",
					output.Clock(seconds(res.TotalActiveSeconds)), output.Clock(seconds(res.SecondsSinceLastWind)))
			}
			return nil
		})
	},
}

func seconds(n int64) time.Duration { return time.Duration(n) * time.Second }

func init() {
	rootCmd.AddCommand(windCmd)
}
