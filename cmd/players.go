package cmd

import (
	"github.com/pawnrank/pawnrank/core"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runLookup runs an executor with the global config and manager.
func runLookup(executor core.ExecutorFunc, failure string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, args []string) {
		if err := executor(rootCtx, cfg, cacheManager, args); err != nil {
			contract.LogFatal(failure, err)
		}
	}
}

// playerCmd shows the tier card of one Lichess player.
var playerCmd = &cobra.Command{
	Use:   "player <username>",
	Short: "Show a Lichess player's current tier and promotion progress.",
	Long: `Fetch a player's Lichess profile and classify the rating of one game type.

When --snapshot-backend is set, every lookup is recorded so progress can be
tracked over time with 'pawnrank snapshots list'.

Examples:
  # Blitz tier card
  pawnrank player DrNykterstein

  # Rapid rating, recorded to the default SQLite snapshot store
  pawnrank player alice --game-type rapid --snapshot-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runLookup(core.ExecutePlayer, "Cannot look up player"),
}

// historyCmd segments a player's rating history by tier.
var historyCmd = &cobra.Command{
	Use:   "history <username>",
	Short: "Split a player's rating history into runs of the same tier.",
	Long: `Fetch a player's rating history and split it into segments of consecutive days
spent in one tier. Each point records its previous rating and whether it was a
promotion or a demotion.

Examples:
  # Blitz history with the chart preset
  pawnrank history alice --preset chart

  # Export points for analysis
  pawnrank history alice --output parquet --output-file alice.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runLookup(core.ExecuteHistory, "Cannot segment rating history"),
}

// leaderboardCmd ranks players by rating.
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [username]...",
	Short: "Rank players by rating with their tiers.",
	Long: `Rank the given players by rating, or the Lichess top players when no usernames are given.

Players without a rating in the selected game type are skipped. Profiles are
fetched concurrently, at most --workers at a time.

Examples:
  # Lichess top 10 in bullet
  pawnrank leaderboard --game-type bullet --limit 10

  # Rank a group of friends
  pawnrank leaderboard alice bob carol --output csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runLookup(core.ExecuteLeaderboard, "Cannot build leaderboard"),
}

// chartCmd renders a rating history to PNG.
var chartCmd = &cobra.Command{
	Use:   "chart <username>",
	Short: "Render a player's rating history as a PNG coloured by tier.",
	Long: `Render a player's rating history to a PNG chart with one colour per tier.

The chart preset is used unless --preset is given explicitly.

Examples:
  # Writes alice_blitz.png
  pawnrank chart alice

  # Custom file with the profile preset
  pawnrank chart alice --preset profile --chart-file progress.png`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetDefault("preset", schema.ChartPreset)
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: runLookup(core.ExecuteChart, "Cannot render chart"),
}
