package config

import (
	"fmt"
	"os"

	"github.com/hoppemairon/gestor-plantio/internal/model"
	"gopkg.in/yaml.v3"
)

// Plan declares the planning registries in a single YAML document so a
// session can be seeded non-interactively from the command line.
type Plan struct {
	Plantings          []model.Planting          `yaml:"plantings"`
	Expenses           []model.Expense           `yaml:"expenses"`
	Loans              []model.Loan              `yaml:"loans"`
	AdditionalRevenues []model.AdditionalRevenue `yaml:"additionalRevenues"`
	Logging            LoggingConfig             `yaml:"logging,omitempty"`
}

// LoadPlan reads and validates the YAML plan at planPath. Every entry must
// satisfy its invariants; the first violation aborts the load.
func LoadPlan(planPath string) (*Plan, error) {
	data, err := os.ReadFile(planPath)
	if err != nil {
		return nil, fmt.Errorf("error reading plan file, %s", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("unable to decode plan file, %s", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks every declared entry against its invariants.
func (p *Plan) Validate() error {
	for i := range p.Plantings {
		if err := p.Plantings[i].Validate(); err != nil {
			return fmt.Errorf("plantings[%d]: %w", i, err)
		}
	}
	for i := range p.Expenses {
		if err := p.Expenses[i].Validate(); err != nil {
			return fmt.Errorf("expenses[%d]: %w", i, err)
		}
	}
	for i := range p.Loans {
		if err := p.Loans[i].Validate(); err != nil {
			return fmt.Errorf("loans[%d]: %w", i, err)
		}
	}
	for i := range p.AdditionalRevenues {
		if err := p.AdditionalRevenues[i].Validate(); err != nil {
			return fmt.Errorf("additionalRevenues[%d]: %w", i, err)
		}
	}
	return nil
}
