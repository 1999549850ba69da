package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/deductgo/internal/domain"
)

// ConsoleFormatter renders the review sheet shown before submission.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var sb strings.Builder
	res := report.Result

	sb.WriteString("SPECIAL ADDITIONAL DEDUCTION ESTIMATE\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	if report.Rules.Metadata.DataYear != 0 {
		sb.WriteString(fmt.Sprintf("Tax year: %d\n", report.Rules.Metadata.DataYear))
	}
	sb.WriteString(fmt.Sprintf("Estimated monthly deduction: %s\n", FormatCurrency(res.MonthlyTotal)))
	sb.WriteString(fmt.Sprintf("Estimated annual deduction:  %s\n", FormatCurrency(res.AnnualTotal)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-40s %15s\n", "Item", "Amount"))
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	if res.IsEmpty() {
		sb.WriteString("No deductions declared\n")
	}
	for _, item := range res.Breakdown {
		sb.WriteString(fmt.Sprintf("%-40s %15s\n", item.Name, FormatCurrency(item.MonthlyAmount)))
		if item.Detail != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", item.Detail))
		}
	}
	if res.IllnessEnabled {
		sb.WriteString(fmt.Sprintf("%-40s %15s\n", domain.CategorySeriousIllness.DisplayName(), FormatCurrency(res.AnnualIllnessDeduction)))
		sb.WriteString("  deducted at annual reconciliation\n")
	}

	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%-40s %15s\n", "Total (monthly)", FormatCurrency(res.MonthlyTotal)))
	return []byte(sb.String()), nil
}
