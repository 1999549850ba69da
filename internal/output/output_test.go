package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/goccy/go-json"
	"github.com/rgehrsitz/deductgo/internal/calculation"
	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *Report {
	input := domain.NewDeductionInput()
	input.Children.Enabled = true
	input.Children.Count = 2
	input.HousingRent.Enabled = true
	input.SeriousIllness.Enabled = true
	input.SeriousIllness.AnnualSelfPay = decimal.NewFromInt(35000)

	rules := domain.DefaultRuleTable()
	return NewReport(input, calculation.Compute(input, rules), rules)
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "¥0"},
		{"800", "¥800"},
		{"1500", "¥1,500"},
		{"59592", "¥59,592"},
		{"1234567", "¥1,234,567"},
		{"666.67", "¥667"},
		{"500.4", "¥500"},
		{"-1200", "-¥1,200"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"console", "json", "csv", "yaml"} {
		f := GetFormatterByName(name)
		require.NotNil(t, f, "Should find formatter %s", name)
		assert.Equal(t, name, f.Name())
	}
	assert.Nil(t, GetFormatterByName("html"), "Unknown formatter should be nil")
	assert.Equal(t, []string{"console", "json", "csv", "yaml", "summary"}, FormatterNames())
}

func TestSummaryFormatter(t *testing.T) {
	f := GetFormatterByName("summary")
	require.NotNil(t, f)
	assert.IsType(t, FormatterFunc{}, f, "Summary is registered through FormatterFunc")

	out, err := f.Format(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "monthly ¥3,500, annual ¥62,000 (illness ¥20,000 at reconciliation)\n", string(out))

	empty := NewReport(domain.NewDeductionInput(), calculation.Compute(domain.NewDeductionInput(), domain.DefaultRuleTable()), domain.DefaultRuleTable())
	out, err = f.Format(empty)
	require.NoError(t, err)
	assert.Equal(t, "monthly ¥0, annual ¥0\n", string(out))
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "total", F: func(r *Report) ([]byte, error) {
		return []byte(r.Result.MonthlyTotal.String()), nil
	}}
	out, err := f.Format(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "total", f.Name())
	assert.Equal(t, "3500", string(out))
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleReport())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "Estimated monthly deduction: ¥3,500")
	assert.Contains(t, text, "Estimated annual deduction:  ¥62,000")
	assert.Contains(t, text, "Children's education")
	assert.Contains(t, text, "Housing rent")
	assert.Contains(t, text, "Serious illness medical")
	assert.Contains(t, text, "deducted at annual reconciliation")
	assert.NotContains(t, text, "No deductions declared")
	assert.Less(t, strings.Index(text, "Children's education"), strings.Index(text, "Housing rent"), "Rows keep declaration order")
}

func TestConsoleFormatter_Empty(t *testing.T) {
	rules := domain.DefaultRuleTable()
	input := domain.NewDeductionInput()
	out, err := ConsoleFormatter{}.Format(NewReport(input, calculation.Compute(input, rules), rules))
	require.NoError(t, err)
	assert.Contains(t, string(out), "No deductions declared")
	assert.Contains(t, string(out), "¥0")
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(sampleReport())
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			MonthlyTotal           decimal.Decimal `json:"monthly_total"`
			AnnualTotal            decimal.Decimal `json:"annual_total"`
			AnnualIllnessDeduction decimal.Decimal `json:"annual_illness_deduction"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.True(t, decoded.Result.MonthlyTotal.Equal(decimal.NewFromInt(3500)))
	assert.True(t, decoded.Result.AnnualTotal.Equal(decimal.NewFromInt(62000)))
	assert.True(t, decoded.Result.AnnualIllnessDeduction.Equal(decimal.NewFromInt(20000)))

	pretty, err := JSONFormatter{Pretty: true}.Format(sampleReport())
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  ")
}

func TestYAMLFormatter(t *testing.T) {
	out, err := YAMLFormatter{}.Format(sampleReport())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "input")
	assert.Contains(t, decoded, "result")
	assert.Contains(t, decoded, "rules")
}

func TestCSVFormatter(t *testing.T) {
	out, err := CSVFormatter{}.Format(sampleReport())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	// header, children, rent, illness, two totals
	require.Len(t, records, 6)
	assert.Equal(t, []string{"Category", "Name", "Period", "Amount", "Detail"}, records[0])
	assert.Equal(t, "children_education", records[1][0])
	assert.Equal(t, "2000.00", records[1][3])
	assert.Equal(t, "housing_rent", records[2][0])
	assert.Equal(t, "annual", records[3][2])
	assert.Equal(t, "20000.00", records[3][3])
	assert.Equal(t, "62000.00", records[5][3])
}

func TestWriteFormatted(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	name, err := WriteFormatted(ConsoleFormatter{}, sampleReport(), "txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "deduction_report_"))
	assert.True(t, strings.HasSuffix(name, ".txt"))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), "¥3,500")
}

func TestGuideText(t *testing.T) {
	text := GuideText(60)
	assert.Contains(t, text, "TIMELINE")
	assert.Contains(t, text, "1 March to 30 June")
	assert.Contains(t, text, "Loan and rent together?")
	for _, line := range strings.Split(text, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 60, "Line should wrap: %q", line)
	}

	text = GuideText(24)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "    ") {
			assert.LessOrEqual(t, ansi.StringWidth(line), 24, "Body line should wrap: %q", line)
		}
	}

	unwrapped := GuideText(0)
	assert.Contains(t, unwrapped, "The declarant is responsible for the accuracy and completeness of what is declared. Keep supporting documents for five years.")
}

func TestWrap_WideCharacters(t *testing.T) {
	body := "赡养老人 子女教育 住房租金 大病医疗"
	lines := wrap(body, 18)
	assert.Equal(t, []string{"赡养老人 子女教育", "住房租金 大病医疗"}, lines, "Wide characters count by display width")
	for _, line := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(line), 18)
	}

	assert.Equal(t, []string{body}, wrap(body, 10), "Narrow widths leave text unwrapped")
	assert.Equal(t, []string{"continuing education"}, wrap("continuing education", 20))
}
