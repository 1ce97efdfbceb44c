// Package opinion turns an indicator set into a qualitative narrative.
// Each indicator's multi-year mean (or scenario-level CAGR) is compared
// against a fixed threshold and produces exactly one statement.
package opinion

import (
	"fmt"
	"math"
	"strings"

	"github.com/hoppemairon/gestor-plantio/internal/indicators"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
	"github.com/hoppemairon/gestor-plantio/pkg/mathutil"
	"go.uber.org/zap"
)

// Verdict classifies one indicator assessment.
type Verdict string

const (
	VerdictHealthy   Verdict = "healthy"
	VerdictAttention Verdict = "attention"
	VerdictRisk      Verdict = "risk"
)

// Assessment is one indicator's qualitative statement.
type Assessment struct {
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
	Verdict   Verdict `json:"verdict"`
	Text      string  `json:"text"`
}

// Opinion is the full narrative for one scenario.
type Opinion struct {
	Scenario    string       `json:"scenario"`
	Assessments []Assessment `json:"assessments"`
}

// Narrative concatenates the assessment statements into one text block.
func (o *Opinion) Narrative() string {
	lines := make([]string, 0, len(o.Assessments))
	for _, a := range o.Assessments {
		lines = append(lines, a.Text)
	}
	return strings.Join(lines, "\n")
}

// RiskCount reports how many assessments carry a risk verdict.
func (o *Opinion) RiskCount() int {
	n := 0
	for _, a := range o.Assessments {
		if a.Verdict == VerdictRisk {
			n++
		}
	}
	return n
}

// Generate maps the indicator set against the threshold table. Totals
// supply the base-year productivity references.
func Generate(logger *zap.Logger, set *indicators.Set, totals indicators.Totals) *Opinion {
	if logger == nil {
		logger = zap.NewNop()
	}

	opinion := &Opinion{Scenario: string(set.Scenario)}
	add := func(a Assessment) {
		opinion.Assessments = append(opinion.Assessments, a)
	}

	netMargin := mathutil.Mean(set.NetMarginPct)
	if netMargin < constants.NetMarginLowPct {
		add(Assessment{
			Indicator: indicators.LabelNetMargin,
			Value:     netMargin,
			Verdict:   VerdictAttention,
			Text:      fmt.Sprintf("Average net margin of %.1f%% is low; the operation keeps little of each unit of revenue.", netMargin),
		})
	} else {
		add(Assessment{
			Indicator: indicators.LabelNetMargin,
			Value:     netMargin,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Average net margin of %.1f%% is adequate.", netMargin),
		})
	}

	returnPerSpent := mathutil.Mean(set.ReturnPerSpent)
	if returnPerSpent < constants.ReturnPerSpentLow {
		add(Assessment{
			Indicator: indicators.LabelReturnPerSpent,
			Value:     returnPerSpent,
			Verdict:   VerdictAttention,
			Text:      fmt.Sprintf("Return of %.2f per unit spent is low; costs absorb most of the result.", returnPerSpent),
		})
	} else {
		add(Assessment{
			Indicator: indicators.LabelReturnPerSpent,
			Value:     returnPerSpent,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Return of %.2f per unit spent is adequate.", returnPerSpent),
		})
	}

	liquidity := mathutil.Mean(set.OperatingLiquidity)
	if liquidity < constants.LiquidityLow {
		add(Assessment{
			Indicator: indicators.LabelOperatingLiquidity,
			Value:     liquidity,
			Verdict:   VerdictRisk,
			Text:      fmt.Sprintf("Operating liquidity of %.2f signals risk; revenue barely covers operational expenses.", liquidity),
		})
	} else {
		add(Assessment{
			Indicator: indicators.LabelOperatingLiquidity,
			Value:     liquidity,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Operating liquidity of %.2f is comfortable.", liquidity),
		})
	}

	indebtedness := mathutil.Mean(set.IndebtednessPct)
	if indebtedness > constants.IndebtednessHighPct {
		add(Assessment{
			Indicator: indicators.LabelIndebtedness,
			Value:     indebtedness,
			Verdict:   VerdictRisk,
			Text:      fmt.Sprintf("Indebtedness of %.1f%% of revenue is high risk; debt service weighs heavily on the operation.", indebtedness),
		})
	} else {
		add(Assessment{
			Indicator: indicators.LabelIndebtedness,
			Value:     indebtedness,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Indebtedness of %.1f%% of revenue is under control.", indebtedness),
		})
	}

	costPerRevenue := mathutil.Mean(set.CostPerRevenuePct)
	if costPerRevenue > constants.CostPerRevenueHighPct {
		add(Assessment{
			Indicator: indicators.LabelCostPerRevenue,
			Value:     costPerRevenue,
			Verdict:   VerdictAttention,
			Text:      fmt.Sprintf("Operational cost consumes %.1f%% of revenue, which is high.", costPerRevenue),
		})
	} else {
		add(Assessment{
			Indicator: indicators.LabelCostPerRevenue,
			Value:     costPerRevenue,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Operational cost consumes %.1f%% of revenue, a sustainable level.", costPerRevenue),
		})
	}

	dscr := mathutil.Mean(set.DSCR)
	switch {
	case math.IsInf(dscr, 1):
		add(Assessment{
			Indicator: indicators.LabelDSCR,
			Value:     dscr,
			Verdict:   VerdictHealthy,
			Text:      "No debt service over the horizon; coverage is not a constraint.",
		})
	case dscr < constants.DSCRLow:
		add(Assessment{
			Indicator: indicators.LabelDSCR,
			Value:     dscr,
			Verdict:   VerdictRisk,
			Text:      fmt.Sprintf("Debt-service coverage of %.2f signals risk; operating profit barely covers installments.", dscr),
		})
	default:
		add(Assessment{
			Indicator: indicators.LabelDSCR,
			Value:     dscr,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Debt-service coverage of %.2f is adequate.", dscr),
		})
	}

	roa := mathutil.Mean(set.ROAPct)
	if roa < constants.ROALowPct {
		add(Assessment{
			Indicator: indicators.LabelROA,
			Value:     roa,
			Verdict:   VerdictAttention,
			Text:      fmt.Sprintf("Return on assets of %.1f%% shows low efficiency of the asset base.", roa),
		})
	} else {
		add(Assessment{
			Indicator: indicators.LabelROA,
			Value:     roa,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Return on assets of %.1f%% is adequate.", roa),
		})
	}

	if totals.Hectares > 0 {
		baseRevenuePerHectare := totals.Sacks * totals.BasePricePerSack / totals.Hectares
		revenuePerHectare := mathutil.Mean(set.RevenuePerHectare)
		if revenuePerHectare < baseRevenuePerHectare*constants.RevenuePerHectareRatio {
			add(Assessment{
				Indicator: indicators.LabelRevenuePerHectare,
				Value:     revenuePerHectare,
				Verdict:   VerdictAttention,
				Text:      fmt.Sprintf("Average revenue of %.0f per hectare runs well below the base-year productivity.", revenuePerHectare),
			})
		} else {
			add(Assessment{
				Indicator: indicators.LabelRevenuePerHectare,
				Value:     revenuePerHectare,
				Verdict:   VerdictHealthy,
				Text:      fmt.Sprintf("Average revenue of %.0f per hectare tracks the base-year productivity.", revenuePerHectare),
			})
		}

		costPerHectare := mathutil.Mean(set.CostPerHectare)
		if costPerHectare > baseRevenuePerHectare*constants.CostPerRevenueHighPct/constants.PercentageMultiplier {
			add(Assessment{
				Indicator: indicators.LabelCostPerHectare,
				Value:     costPerHectare,
				Verdict:   VerdictAttention,
				Text:      fmt.Sprintf("Average cost of %.0f per hectare is high relative to the land's revenue potential.", costPerHectare),
			})
		} else {
			add(Assessment{
				Indicator: indicators.LabelCostPerHectare,
				Value:     costPerHectare,
				Verdict:   VerdictHealthy,
				Text:      fmt.Sprintf("Average cost of %.0f per hectare is compatible with the land's revenue potential.", costPerHectare),
			})
		}

		achievableYield := totals.Sacks / totals.Hectares
		breakEven := mathutil.Mean(set.BreakEvenYield)
		if breakEven > achievableYield*constants.BreakEvenYieldRatio {
			add(Assessment{
				Indicator: indicators.LabelBreakEvenYield,
				Value:     breakEven,
				Verdict:   VerdictRisk,
				Text:      fmt.Sprintf("Break-even yield of %.1f sacks/ha leaves a thin safety margin against the expected %.1f sacks/ha.", breakEven, achievableYield),
			})
		} else {
			add(Assessment{
				Indicator: indicators.LabelBreakEvenYield,
				Value:     breakEven,
				Verdict:   VerdictHealthy,
				Text:      fmt.Sprintf("Break-even yield of %.1f sacks/ha leaves a comfortable margin against the expected %.1f sacks/ha.", breakEven, achievableYield),
			})
		}
	}

	if set.CAGRRevenuePct < 0 {
		add(Assessment{
			Indicator: indicators.LabelCAGRRevenue,
			Value:     set.CAGRRevenuePct,
			Verdict:   VerdictAttention,
			Text:      fmt.Sprintf("Revenue declines %.1f%% per year over the horizon.", math.Abs(set.CAGRRevenuePct)),
		})
	} else {
		add(Assessment{
			Indicator: indicators.LabelCAGRRevenue,
			Value:     set.CAGRRevenuePct,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Revenue grows %.1f%% per year over the horizon.", set.CAGRRevenuePct),
		})
	}

	if set.CAGRNetProfitPct < 0 {
		add(Assessment{
			Indicator: indicators.LabelCAGRNetProfit,
			Value:     set.CAGRNetProfitPct,
			Verdict:   VerdictAttention,
			Text:      fmt.Sprintf("Net profit declines %.1f%% per year over the horizon.", math.Abs(set.CAGRNetProfitPct)),
		})
	} else {
		add(Assessment{
			Indicator: indicators.LabelCAGRNetProfit,
			Value:     set.CAGRNetProfitPct,
			Verdict:   VerdictHealthy,
			Text:      fmt.Sprintf("Net profit grows %.1f%% per year over the horizon.", set.CAGRNetProfitPct),
		})
	}

	logger.Debug("generated opinion",
		zap.String("scenario", opinion.Scenario),
		zap.Int("assessments", len(opinion.Assessments)),
		zap.Int("risks", opinion.RiskCount()),
	)
	return opinion
}
