package schema

// Custom string types for type safety.
type (
	// Tier is one of the six ordered skill bands derived from a rating.
	Tier string

	// GameType is the rating pool a rating belongs to (blitz, rapid, ...).
	GameType string

	// ProgressMode selects the promotion-progress algorithm.
	ProgressMode string

	// ThresholdPreset names one of the built-in threshold tables.
	ThresholdPreset string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and snapshots.
	DatabaseBackend string
)

// All tiers, lowest first.
const (
	Pawn   Tier = "PAWN"
	Knight Tier = "KNIGHT"
	Bishop Tier = "BISHOP"
	Rook   Tier = "ROOK"
	Queen  Tier = "QUEEN"
	King   Tier = "KING"
)

// SubTierCount is the number of sub-tiers inside every main tier.
const SubTierCount = 5

// All game types supported by the rating source.
const (
	Bullet         GameType = "bullet"
	Blitz          GameType = "blitz" // default
	Rapid          GameType = "rapid"
	Classical      GameType = "classical"
	Correspondence GameType = "correspondence"
	Chess960       GameType = "chess960"
	Puzzle         GameType = "puzzle"
)

// All progress modes supported.
const (
	SubTierProgress ProgressMode = "subtier" // default
	TierProgress    ProgressMode = "tier"
)

// All threshold presets supported.
const (
	ProfilePreset ThresholdPreset = "profile" // default
	ChartPreset   ThresholdPreset = "chart"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllTiers lists every tier in ascending order of skill.
var AllTiers = []Tier{Pawn, Knight, Bishop, Rook, Queen, King}

// AllGameTypes returns a list of all supported game types.
var AllGameTypes = []GameType{Bullet, Blitz, Rapid, Classical, Correspondence, Chess960, Puzzle}

// ValidGameTypes lists all valid game types.
var ValidGameTypes = map[GameType]struct{}{
	Bullet:         {},
	Blitz:          {},
	Rapid:          {},
	Classical:      {},
	Correspondence: {},
	Chess960:       {},
	Puzzle:         {},
}

// ValidProgressModes lists all valid progress modes.
var ValidProgressModes = map[ProgressMode]struct{}{
	SubTierProgress: {},
	TierProgress:    {},
}

// ValidThresholdPresets lists all valid threshold presets.
var ValidThresholdPresets = map[ThresholdPreset]struct{}{
	ProfilePreset: {},
	ChartPreset:   {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetPresetThresholds returns a fresh copy of the threshold map for a preset.
// The profile card and the rating chart historically used different tables.
func GetPresetThresholds(preset ThresholdPreset) map[Tier]int {
	switch preset {
	case ChartPreset:
		return map[Tier]int{
			Pawn:   0,
			Knight: 800,
			Bishop: 1200,
			Rook:   1600,
			Queen:  2000,
			King:   2400,
		}
	default: // ProfilePreset
		return map[Tier]int{
			Pawn:   400,
			Knight: 901,
			Bishop: 1201,
			Rook:   1501,
			Queen:  1801,
			King:   2101,
		}
	}
}

// Rank returns the zero-based position of the tier in AllTiers, or -1 if unknown.
func (t Tier) Rank() int {
	for i, tier := range AllTiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// Next returns the tier directly above t. KING is its own successor.
func (t Tier) Next() Tier {
	r := t.Rank()
	if r < 0 || r >= len(AllTiers)-1 {
		return King
	}
	return AllTiers[r+1]
}

// IsTop reports whether t is the open-ended top tier.
func (t Tier) IsTop() bool {
	return t == King
}

// ColorKey returns the presentation lookup key for the tier.
func (t Tier) ColorKey() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "unknown"
	}
}
