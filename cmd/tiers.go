package cmd

import (
	"fmt"
	"strconv"

	"github.com/pawnrank/pawnrank/core"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/spf13/cobra"
)

// parseRatings converts positional arguments into raw ratings.
func parseRatings(args []string) ([]float64, error) {
	ratings := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rating %q: %w", arg, err)
		}
		ratings[i] = v
	}
	return ratings, nil
}

// classifyCmd classifies raw ratings without any network access.
var classifyCmd = &cobra.Command{
	Use:   "classify <rating>...",
	Short: "Show the tier and sub-tier of one or more ratings.",
	Long: `Classify ratings into one of six tiers (PAWN, KNIGHT, BISHOP, ROOK, QUEEN, KING)
and a sub-tier from V (just entered) to I (closest to promotion).

Ratings are rounded to the nearest integer. KING has no upper bound and is always KING I.

Examples:
  # Classify a single rating with the profile preset
  pawnrank classify 1150

  # Compare several ratings using the chart preset
  pawnrank classify 850 1250 1900 --preset chart

  # Custom thresholds on top of the preset
  pawnrank classify 1000 --thresholds-override "knight:950,bishop:1300"`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: offlineSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ratings, err := parseRatings(args)
		if err != nil {
			contract.LogFatal("Cannot parse ratings", err)
		}
		if err := core.ExecuteClassify(rootCtx, cfg, ratings); err != nil {
			contract.LogFatal("Cannot classify ratings", err)
		}
	},
}

// progressCmd shows promotion progress for raw ratings.
var progressCmd = &cobra.Command{
	Use:   "progress <rating>...",
	Short: "Show how far ratings are from their next promotion.",
	Long: `Compute promotion progress for one or more ratings.

Progress modes:
- subtier (default) - the target is the next sub-tier, or the next tier from sub-tier I
- tier              - the target is always the next main tier

Examples:
  # Sub-tier progress
  pawnrank progress 1000

  # Whole-tier progress as JSON
  pawnrank progress 1000 1450 --progress-mode tier --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: offlineSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ratings, err := parseRatings(args)
		if err != nil {
			contract.LogFatal("Cannot parse ratings", err)
		}
		if err := core.ExecuteProgress(rootCtx, cfg, ratings); err != nil {
			contract.LogFatal("Cannot compute progress", err)
		}
	},
}

// thresholdsCmd prints the active threshold table.
var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Print the rating range of every tier and sub-tier.",
	Long: `Print the active threshold table, after presets and overrides are applied.

Examples:
  # Profile preset
  pawnrank thresholds

  # Chart preset as CSV, one row per sub-tier
  pawnrank thresholds --preset chart --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: offlineSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteThresholds(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot print thresholds", err)
		}
	},
}
