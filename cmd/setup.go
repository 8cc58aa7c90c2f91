package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/profile"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure cpwind (re-run anytime to edit settings)",
	Args:  cobra.NoArgs,
	// Bypass the normal PersistentPreRunE so setup works before profile exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initOutput(cmd)
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(cmd, cmd.InOrStdin())
	},
}

// runSetup runs the interactive setup wizard reading answers from in.
func runSetup(cmd *cobra.Command, in io.Reader) error {
	// Load existing profile as defaults if present.
	var existing *profile.Profile
	if profile.Exists() {
		p, err := profile.Load()
		if err == nil {
			existing = p
		}
	}

	prof, err := profile.RunSetup(existing, in, cmd.OutOrStdout())
	if err != nil {
		return clierr.Wrap(clierr.ExitGeneral, "Setup cancelled", err)
	}
	if err := profile.Save(prof); err != nil {
		return clierr.Wrap(clierr.ExitGeneral, "Could not save profile", err)
	}
	out.Success("Profile saved.")

	if prof.DefaultExt != "" {
		if store, err := templateStore(); err == nil {
			if _, err := store.Get(prof.DefaultExt); err != nil {
				out.Info("No template for %s yet. Add one with: cpwind template set %s <path>", prof.DefaultExt, prof.DefaultExt)
			}
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "  Setup complete. Run 'cpwind generate <file>' to start a timer.")
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
