package output

import (
	"fmt"
	"os"
	"time"

	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is everything a formatter renders: the declaration, its computed
// result and the rule table it was computed with.
type Report struct {
	Input       domain.DeductionInput  `json:"input" yaml:"input"`
	Result      domain.DeductionResult `json:"result" yaml:"result"`
	Rules       domain.RuleTable       `json:"rules" yaml:"rules"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
}

// NewReport bundles a computed result for output
func NewReport(input domain.DeductionInput, result domain.DeductionResult, rules domain.RuleTable) *Report {
	return &Report{Input: input, Result: result, Rules: rules, GeneratedAt: time.Now().UTC()}
}

// Formatter renders a report in one output format.
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = []Formatter{
	ConsoleFormatter{},
	JSONFormatter{Pretty: true},
	CSVFormatter{},
	YAMLFormatter{},
	FormatterFunc{ID: "summary", F: formatSummary},
}

// formatSummary prints the totals on one line, for scripts and status bars.
func formatSummary(report *Report) ([]byte, error) {
	res := report.Result
	line := fmt.Sprintf("monthly %s, annual %s", FormatCurrency(res.MonthlyTotal), FormatCurrency(res.AnnualTotal))
	if res.IllnessEnabled {
		line += fmt.Sprintf(" (illness %s at reconciliation)", FormatCurrency(res.AnnualIllnessDeduction))
	}
	return []byte(line + "\n"), nil
}

// GetFormatterByName returns the formatter registered under name, or nil.
func GetFormatterByName(name string) Formatter {
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// FormatterNames lists the registered formatter names
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// WriteFormatted renders report with f into a timestamped file in the
// working directory and returns the file name.
func WriteFormatted(f Formatter, report *Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", fmt.Errorf("format report: %w", err)
	}
	filename := fmt.Sprintf("deduction_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", filename, err)
	}
	return filename, nil
}

// yuan groups digits the way amounts are written on Chinese payslips
var yuan = message.NewPrinter(language.Chinese)

// FormatCurrency formats an amount as whole yuan with thousands separators,
// e.g. ¥1,500. Rounding happens here and nowhere else.
func FormatCurrency(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	if whole < 0 {
		return "-¥" + yuan.Sprintf("%d", -whole)
	}
	return "¥" + yuan.Sprintf("%d", whole)
}
