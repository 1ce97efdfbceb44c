package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hoppemairon/gestor-plantio/internal/config"
	"github.com/hoppemairon/gestor-plantio/internal/dre"
	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/internal/registry"
	"github.com/hoppemairon/gestor-plantio/internal/report"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
)

func testBundle(t *testing.T) *report.Bundle {
	t.Helper()
	snap := registry.Snapshot{
		Plantings: []model.Planting{
			{Year: 2025, Crop: model.CropSoybean, Hectares: 100, SacksPerHectare: 40, PricePerSack: 120},
		},
		Expenses: []model.Expense{
			{Name: "Inputs", Amount: 50000, Category: model.CategoryOperational, CostCenter: model.CostCenterAdministrative},
		},
		Parameters: config.DefaultParameters(),
	}
	bundle, err := report.Assemble(nil, snap, constants.HorizonYears)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return bundle
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, testBundle(t))
	out := buf.String()

	for _, scenario := range dre.Scenarios {
		if !strings.Contains(out, "--- Results for scenario "+string(scenario)+" ---") {
			t.Errorf("missing scenario header for %s", scenario)
		}
	}
	if !strings.Contains(out, "Cash flow:") || !strings.Contains(out, "Income statement:") {
		t.Error("missing table headings")
	}
	if !strings.Contains(out, "R$") {
		t.Error("expected currency formatting in pretty output")
	}
	if !strings.Contains(out, "Opinion:") {
		t.Error("missing opinion narrative")
	}
}

func TestPrettyFormatPerCrop(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormatPerCrop(&buf, testBundle(t), dre.ScenarioProjected)
	out := buf.String()
	if !strings.Contains(out, model.CropSoybean) {
		t.Errorf("expected crop section, got:\n%s", out)
	}
	if !strings.Contains(out, dre.LineRevenue) {
		t.Error("missing revenue line in per-crop table")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, testBundle(t))
	out := buf.String()

	if !strings.Contains(out, `"scenario","Projected"`) {
		t.Error("missing scenario block header")
	}
	if !strings.Contains(out, `"line","Year 1","Year 2","Year 3","Year 4","Year 5"`) {
		t.Error("missing column header row")
	}
	if !strings.Contains(out, `"`+dre.LineRevenue+`"`) {
		t.Error("missing revenue row")
	}
	blocks := strings.Count(out, `"scenario",`)
	if blocks != len(dre.Scenarios) {
		t.Errorf("expected %d scenario blocks, got %d", len(dre.Scenarios), blocks)
	}
}
