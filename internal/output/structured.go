package output

import (
	"bytes"
	"encoding/csv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/deductgo/internal/domain"
)

// JSONFormatter renders the full report as JSON
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}

// FormatRules renders a rule table on its own
func (j JSONFormatter) FormatRules(rules domain.RuleTable) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(rules, "", "  ")
	}
	return json.Marshal(rules)
}

// YAMLFormatter renders the full report as YAML
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(report *Report) ([]byte, error) {
	return yaml.Marshal(report)
}

// FormatRules renders a rule table on its own, in the same layout
// LoadRuleTable reads.
func (y YAMLFormatter) FormatRules(rules domain.RuleTable) ([]byte, error) {
	return yaml.Marshal(rules)
}

// CSVFormatter writes one row per breakdown item, the illness deduction
// and the totals.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Category", "Name", "Period", "Amount", "Detail"}); err != nil {
		return nil, err
	}

	res := report.Result
	for _, item := range res.Breakdown {
		row := []string{string(item.Category), item.Name, "monthly", item.MonthlyAmount.StringFixed(2), item.Detail}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	if res.IllnessEnabled {
		row := []string{string(domain.CategorySeriousIllness), domain.CategorySeriousIllness.DisplayName(), "annual", res.AnnualIllnessDeduction.StringFixed(2), "deducted at annual reconciliation"}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	totals := [][]string{
		{"total", "Monthly total", "monthly", res.MonthlyTotal.StringFixed(2), ""},
		{"total", "Annual total", "annual", res.AnnualTotal.StringFixed(2), ""},
	}
	if err := w.WriteAll(totals); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
