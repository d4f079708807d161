package cmd

import (
	"encoding/json"
	"runtime"

	"github.com/pawnrank/pawnrank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildInfo is what `pawnrank version` reports.
type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
	Runtime string `json:"runtime"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print pawnrank build details",
	Long: `Print the release version, commit, build time and Go runtime of this binary.

Pass --output json for a machine-readable form when filing bug reports.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := buildInfo{Version: version, Commit: commit, Built: date, Runtime: runtime.Version()}
		if schema.OutputMode(viper.GetString("output")) == schema.JSONOut {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		cmd.Printf("pawnrank %s (commit %s, built %s, %s)\n", info.Version, info.Commit, info.Built, info.Runtime)
		return nil
	},
}
