package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/app"
	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/output"
	"github.com/fakeyudi/cpwind/internal/session"
	"github.com/fakeyudi/cpwind/internal/tui"
)

var (
	statusLive bool
	statusJSON bool
)

// statusEntry is one file in `status --json`.
type statusEntry struct {
	File          string  `json:"file"`
	State         string  `json:"state"`
	ActiveSeconds int64   `json:"activeSeconds"`
	Generated     string  `json:"generated"`
	Paused        *string `json:"paused,omitempty"`
	LastWinded    *string `json:"lastWinded,omitempty"`
}

type statusReport struct {
	LastGenerated  string        `json:"lastGenerated,omitempty"`
	LastRun        string        `json:"lastRun,omitempty"`
	GeneratedCount int           `json:"generatedCount"`
	RunCount       int           `json:"runCount"`
	WindCount      int           `json:"windCount"`
	Sessions       []statusEntry `json:"sessions"`
}

var statusCmd = &cobra.Command{
	Use:   "status [file]",
	Short: "Show tracked files and their active time",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, st, err := loadState()
		if err != nil {
			return err
		}

		if statusLive {
			if len(args) > 0 {
				return clierr.New(clierr.ExitUsage, "--live shows every tracked file and takes no file argument").
					WithHint("Run 'cpwind status " + args[0] + "' for a single file")
			}
			return tui.Run(func() (*session.State, error) { return store.Load() })
		}

		views := app.Snapshot(st, time.Now())
		if len(args) > 0 {
			name := app.ResolveFile(st, args, false)
			views = filterViews(views, name)
			if len(views) == 0 {
				return clierr.NotTracked(name, session.ErrNotTracked)
			}
		}

		if statusJSON {
			return writeStatusJSON(cmd, st, views)
		}

		w := cmd.OutOrStdout()
		if len(views) == 0 {
			fmt.Fprintln(w, "No tracked files")
		} else {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSTATE\tACTIVE\tLAST WIND")
			for _, v := range views {
				wound := "-"
				if v.LastWindedAt != nil {
					wound = v.LastWindedAt.Local().Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.File, v.Phase, output.Clock(v.Active), wound)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "Generated: %d  Runs: %d  Winds: %d\n", st.GeneratedCount, st.RunCount, st.WindCount)
		if st.LastGenerated != "" {
			fmt.Fprintf(w, "Last generated: %s\n", st.LastGenerated)
		}
		if st.LastRun != "" {
			fmt.Fprintf(w, "Last run: %s\n", st.LastRun)
		}
		return nil
	},
}

func filterViews(views []app.SessionView, name string) []app.SessionView {
	for _, v := range views {
		if v.File == name {
			return []app.SessionView{v}
		}
	}
	return nil
}

func writeStatusJSON(cmd *cobra.Command, st *session.State, views []app.SessionView) error {
	report := statusReport{
		LastGenerated:  st.LastGenerated,
		LastRun:        st.LastRun,
		GeneratedCount: st.GeneratedCount,
		RunCount:       st.RunCount,
		WindCount:      st.WindCount,
		Sessions:       make([]statusEntry, 0, len(views)),
	}
	for _, v := range views {
		report.Sessions = append(report.Sessions, statusEntry{
			File:          v.File,
			State:         v.Phase,
			ActiveSeconds: int64(v.Active / time.Second),
			Generated:     v.GeneratedAt.UTC().Format(time.RFC3339),
			Paused:        rfc3339(v.PausedAt),
			LastWinded:    rfc3339(v.LastWindedAt),
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func rfc3339(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func init() {
	statusCmd.Flags().BoolVar(&statusLive, "live", false, "Open a live dashboard")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print machine-readable JSON")
	rootCmd.AddCommand(statusCmd)
}
