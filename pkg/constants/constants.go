// Package constants provides shared constants for gestor-plantio.
package constants

// HorizonYears is the fixed length of the projection window.
const HorizonYears = 5

// Tax rates applied when building the income statement.
const (
	// SalesTaxRate covers FUNRURAL (1.2%) plus PIS/COFINS (3.65%) on gross
	// revenue.
	SalesTaxRate = 0.0485

	// ResultTaxRate is the IRPJ+CSLL estimate applied to positive operating
	// profit only.
	ResultTaxRate = 0.15
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Asset estimation heuristic used by the indicator calculator: land value
// per planted hectare plus a fixed allowance for machinery and buildings.
const (
	AssetValuePerHectare = 20000.0
	FixedAssetBase       = 1000000.0
)

// Scenario parameter defaults, applied when the config file is absent.
const (
	DefaultPessimisticRevenueReductionPct = 15.0
	DefaultPessimisticExpenseIncreasePct  = 10.0
	DefaultOptimisticRevenueIncreasePct   = 10.0
	DefaultOptimisticExpenseReductionPct  = 10.0

	// DefaultInflationPct is the per-year inflation rate assumed when a year
	// has no configured rate.
	DefaultInflationPct = 4.0

	// MaxAdjustmentPct bounds every scenario adjustment percentage.
	MaxAdjustmentPct = 50.0

	// MaxInflationPct bounds every per-year inflation rate.
	MaxInflationPct = 100.0
)

// Planting validation bounds.
const (
	MinPlantingYear = 2000
	MaxPlantingYear = 2100
)

// RegistryIDLength is the length of generated registry identifiers.
const RegistryIDLength = 8

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default scenario-parameter file name
	DefaultConfigFile = "config.json"

	// DefaultPlanFile is the default plan file name for CLI runs
	DefaultPlanFile = "plan.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for
	// spreadsheet imports (4 MB)
	DefaultMaxUploadSizeBytes int64 = 4 * 1024 * 1024
)

// Opinion thresholds used by the narrative generator.
const (
	NetMarginLowPct       = 10.0
	ReturnPerSpentLow     = 0.2
	LiquidityLow          = 1.5
	IndebtednessHighPct   = 30.0
	CostPerRevenueHighPct = 70.0
	DSCRLow               = 1.25
	ROALowPct             = 5.0

	// RevenuePerHectareRatio and BreakEvenYieldRatio compare projected values
	// against the base-year average before flagging them.
	RevenuePerHectareRatio = 0.8
	BreakEvenYieldRatio    = 0.8
)
