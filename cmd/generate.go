package cmd

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/app"
	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/template"
)

var generateForce bool

var generateCmd = &cobra.Command{
	Use:     "generate <file>",
	Aliases: []string{"gen", "g"},
	Short:   "Create a file from its template and start its timer",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := filepath.Clean(args[0])
		if filepath.Ext(name) == "" && activeProfile != nil && activeProfile.DefaultExt != "" {
			name += activeProfile.DefaultExt
		}

		return withController(cmd, func(ctl *app.Controller) error {
			res, err := ctl.OnGenerate(name, generateForce)
			switch {
			case errors.Is(err, template.ErrNoTemplate):
				return clierr.NoTemplate(filepath.Ext(name), err)
			case errors.Is(err, app.ErrFileExists):
				return clierr.FileExists(name)
			case err != nil:
				return clierr.Wrap(clierr.ExitGeneral, "Could not generate "+name, err)
			}

			if res.Tracked {
				out.Success("Generated %s, timer started", name)
			} else {
				out.Success("Regenerated %s, timer kept", name)
			}
			return nil
		})
	},
}

func init() {
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Overwrite the file if it exists")
	rootCmd.AddCommand(generateCmd)
}
