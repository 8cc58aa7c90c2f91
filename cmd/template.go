package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage per-extension templates used by generate",
}

var templateSetCmd = &cobra.Command{
	Use:   "set <ext> <path>",
	Short: "Register the file at path as the template for ext ('-' reads stdin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := templateStore()
		if err != nil {
			return err
		}

		var content []byte
		if args[1] == "-" {
			content, err = io.ReadAll(cmd.InOrStdin())
		} else {
			content, err = os.ReadFile(args[1])
		}
		if errors.Is(err, os.ErrNotExist) {
			return clierr.FileMissing(args[1])
		}
		if err != nil {
			return clierr.Wrap(clierr.ExitGeneral, "Could not read template source", err)
		}

		if err := store.Set(args[0], content); err != nil {
			return clierr.Wrap(clierr.ExitUsage, "Could not save template", err).
				WithHint("Extensions look like .cpp or py")
		}
		out.Success("Template for %s saved (%d bytes)", args[0], len(content))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List extensions that have a template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := templateStore()
		if err != nil {
			return err
		}
		exts, err := store.List()
		if err != nil {
			return clierr.Wrap(clierr.ExitGeneral, "Could not list templates", err)
		}
		if len(exts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No templates")
			return nil
		}
		for _, ext := range exts {
			fmt.Fprintln(cmd.OutOrStdout(), ext)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <ext>",
	Short: "Print the template for ext",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := templateStore()
		if err != nil {
			return err
		}
		content, err := store.Get(args[0])
		if errors.Is(err, template.ErrNoTemplate) {
			return clierr.NoTemplate(args[0], err)
		}
		if err != nil {
			return clierr.Wrap(clierr.ExitGeneral, "Could not read template", err)
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	},
}

func init() {
	templateCmd.AddCommand(templateSetCmd, templateListCmd, templateShowCmd)
	rootCmd.AddCommand(templateCmd)
}
