package schema

// Custom string types for type safety.
type (
	// Agreement represents the level of agreement between grading passes.
	Agreement string

	// OutputMode represents the format of the output.
	OutputMode string

	// Strictness represents the scoring strictness mode.
	Strictness string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// Band represents the qualitative label for a total score.
	Band string
)

// All agreement levels supported.
const (
	UnanimousAgreement Agreement = "unanimous" // every pass returned the same points
	MajorityAgreement  Agreement = "majority"  // passes differ within the tolerance band
	SplitAgreement     Agreement = "split"     // passes differ beyond the tolerance band
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All strictness modes supported.
const (
	ProportionalStrictness Strictness = "proportional" // default
	HardFailStrictness     Strictness = "hardfail"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All score bands supported.
const (
	ExcellentBand    Band = "Excellent"
	GoodBand         Band = "Good"
	SatisfactoryBand Band = "Satisfactory"
	PassingBand      Band = "Passing"
	FailingBand      Band = "Failing"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStrictnessModes lists all valid strictness modes.
var ValidStrictnessModes = map[Strictness]struct{}{
	ProportionalStrictness: {},
	HardFailStrictness:     {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultBandThresholds returns the default mapping of minimum score
// percentage to band label. Bands are evaluated from highest to lowest.
func GetDefaultBandThresholds() map[Band]float64 {
	return map[Band]float64{
		ExcellentBand:    90.0,
		GoodBand:         80.0,
		SatisfactoryBand: 70.0,
		PassingBand:      60.0,
		FailingBand:      0.0,
	}
}

// BandOrder lists bands from highest threshold to lowest for deterministic lookup.
var BandOrder = []Band{ExcellentBand, GoodBand, SatisfactoryBand, PassingBand, FailingBand}
