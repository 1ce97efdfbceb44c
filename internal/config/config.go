// Package config defines the scenario-parameter configuration and includes
// functions for loading and persisting it.
package config

import (
	"fmt"
	"os"

	"github.com/hoppemairon/gestor-plantio/pkg/constants"
	"github.com/spf13/viper"
)

// Parameters holds the scenario adjustments and per-year inflation rates.
// The on-disk representation is a flat JSON document whose keys are kept
// compatible with the historical config files (pess_receita, inf_0, ...).
type Parameters struct {
	PessimisticRevenueReductionPct float64   `json:"pessimisticRevenueReductionPct"`
	PessimisticExpenseIncreasePct  float64   `json:"pessimisticExpenseIncreasePct"`
	OptimisticRevenueIncreasePct   float64   `json:"optimisticRevenueIncreasePct"`
	OptimisticExpenseReductionPct  float64   `json:"optimisticExpenseReductionPct"`
	InflationPct                   []float64 `json:"inflationPct"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

const (
	keyPessimisticRevenue = "pess_receita"
	keyPessimisticExpense = "pess_despesas"
	keyOptimisticRevenue  = "otm_receita"
	keyOptimisticExpense  = "otm_despesas"
	keyInflationPrefix    = "inf_"
)

// DefaultParameters returns the parameters applied when no config file
// exists.
func DefaultParameters() Parameters {
	inflation := make([]float64, constants.HorizonYears)
	for i := range inflation {
		inflation[i] = constants.DefaultInflationPct
	}
	return Parameters{
		PessimisticRevenueReductionPct: constants.DefaultPessimisticRevenueReductionPct,
		PessimisticExpenseIncreasePct:  constants.DefaultPessimisticExpenseIncreasePct,
		OptimisticRevenueIncreasePct:   constants.DefaultOptimisticRevenueIncreasePct,
		OptimisticExpenseReductionPct:  constants.DefaultOptimisticExpenseReductionPct,
		InflationPct:                   inflation,
	}
}

// LoadParameters reads the scenario parameters from the JSON file at
// configPath. An absent file yields the defaults; a malformed file is an
// error.
func LoadParameters(configPath string) (Parameters, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultParameters(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Parameters{}, fmt.Errorf("error reading config file, %s", err)
	}

	params := Parameters{
		PessimisticRevenueReductionPct: v.GetFloat64(keyPessimisticRevenue),
		PessimisticExpenseIncreasePct:  v.GetFloat64(keyPessimisticExpense),
		OptimisticRevenueIncreasePct:   v.GetFloat64(keyOptimisticRevenue),
		OptimisticExpenseReductionPct:  v.GetFloat64(keyOptimisticExpense),
		InflationPct:                   make([]float64, constants.HorizonYears),
	}
	for i := range params.InflationPct {
		params.InflationPct[i] = v.GetFloat64(fmt.Sprintf("%s%d", keyInflationPrefix, i))
	}

	params.Clamp()
	return params, nil
}

// Save persists the parameters to configPath as flat JSON, overwriting the
// whole file.
func (p Parameters) Save(configPath string) error {
	v := viper.New()
	v.SetConfigType("json")
	v.Set(keyPessimisticRevenue, p.PessimisticRevenueReductionPct)
	v.Set(keyPessimisticExpense, p.PessimisticExpenseIncreasePct)
	v.Set(keyOptimisticRevenue, p.OptimisticRevenueIncreasePct)
	v.Set(keyOptimisticExpense, p.OptimisticExpenseReductionPct)
	for i, rate := range p.InflationPct {
		v.Set(fmt.Sprintf("%s%d", keyInflationPrefix, i), rate)
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("error writing config file, %s", err)
	}
	return nil
}

// Clamp constrains every adjustment to [0, 50] percent and every inflation
// rate to [0, 100] percent.
func (p *Parameters) Clamp() {
	p.PessimisticRevenueReductionPct = clamp(p.PessimisticRevenueReductionPct, 0, constants.MaxAdjustmentPct)
	p.PessimisticExpenseIncreasePct = clamp(p.PessimisticExpenseIncreasePct, 0, constants.MaxAdjustmentPct)
	p.OptimisticRevenueIncreasePct = clamp(p.OptimisticRevenueIncreasePct, 0, constants.MaxAdjustmentPct)
	p.OptimisticExpenseReductionPct = clamp(p.OptimisticExpenseReductionPct, 0, constants.MaxAdjustmentPct)
	for i, rate := range p.InflationPct {
		p.InflationPct[i] = clamp(rate, 0, constants.MaxInflationPct)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPessimisticRevenue, constants.DefaultPessimisticRevenueReductionPct)
	v.SetDefault(keyPessimisticExpense, constants.DefaultPessimisticExpenseIncreasePct)
	v.SetDefault(keyOptimisticRevenue, constants.DefaultOptimisticRevenueIncreasePct)
	v.SetDefault(keyOptimisticExpense, constants.DefaultOptimisticExpenseReductionPct)
	for i := 0; i < constants.HorizonYears; i++ {
		v.SetDefault(fmt.Sprintf("%s%d", keyInflationPrefix, i), constants.DefaultInflationPct)
	}
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
