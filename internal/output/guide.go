package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// GuideEntry is a titled paragraph of filing guidance.
type GuideEntry struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// GuideSection groups related guide entries.
type GuideSection struct {
	Heading string       `json:"heading" yaml:"heading"`
	Entries []GuideEntry `json:"entries" yaml:"entries"`
}

// FilingGuide is the static guidance shown next to the calculator.
var FilingGuide = []GuideSection{
	{
		Heading: "General principles",
		Entries: []GuideEntry{
			{"Good faith", "The declarant is responsible for the accuracy and completeness of what is declared. Keep supporting documents for five years."},
			{"Monthly withholding", "The employer applies the declared deductions when withholding tax on wages each month."},
			{"Reconciliation", "Anything not fully deducted during the year can be claimed in one go at annual reconciliation, 1 March to 30 June of the following year."},
			{"Keep it current", "Report changes to marital status, schooling, loans or work city in the month they happen."},
			{"Annual confirmation", "Next year's deductions must be confirmed in December. Unconfirmed deductions are suspended from January."},
		},
	},
	{
		Heading: "How to file",
		Entries: []GuideEntry{
			{"First filing", "Use the individual income tax app or the online tax service, or hand the paper declaration form to the employer's payroll office."},
			{"Changes", "Modify or void the existing entry and file again. Changes made before the 15th apply from the next month's withholding."},
			{"Confirmation", "Between 1 and 31 December the app offers a one-step confirmation for the coming year."},
		},
	},
	{
		Heading: "Common questions",
		Entries: []GuideEntry{
			{"How should a couple split?", "The spouse with the higher marginal rate usually saves more by claiming in full. Housing loan, rent and infant care splits cannot change within a year."},
			{"Loan and rent together?", "No. Housing loan interest and housing rent cannot be claimed in the same year."},
			{"Certificate filed late?", "A professional qualification obtained this year can still be claimed once (3,600) at reconciliation."},
			{"Where do illness figures come from?", "The national medical insurance service app records self-paid amounts and feeds them to the tax system."},
			{"Are declarations checked?", "At least 5% are sampled each year. False declarations lead to back tax, late fees and penalties."},
		},
	},
	{
		Heading: "Documents to keep",
		Entries: []GuideEntry{
			{"Children's education", "For study abroad: admission letter, visa and passport entry records."},
			{"Continuing education", "Qualification certificate with its number and issuing authority."},
			{"Housing loan", "Loan contract and repayment records."},
			{"Housing rent", "Lease and payment records; a copy of the landlord's ID for private lets."},
			{"Elder support", "Sharing agreement (non-only children) and parents' IDs."},
		},
	},
	{
		Heading: "Timeline",
		Entries: []GuideEntry{
			{"Monthly, 1st to 15th", "Check the cumulative deduction on the previous month's payslip."},
			{"December", "Confirm next year's deductions."},
			{"1 March to 30 June", "Annual reconciliation: refunds paid, shortfalls settled."},
		},
	},
}

// GuideText renders the filing guide as plain text wrapped at width
// columns. A width below 20 disables wrapping.
func GuideText(width int) string {
	var sb strings.Builder
	for i, section := range FilingGuide {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.ToUpper(section.Heading) + "\n")
		for _, e := range section.Entries {
			sb.WriteString(fmt.Sprintf("  %s\n", e.Title))
			for _, line := range wrap(e.Body, width-4) {
				sb.WriteString("    " + line + "\n")
			}
		}
	}
	return sb.String()
}

// wrap breaks text at word boundaries so no line is wider than width
// terminal cells. Wide characters count as two cells.
func wrap(text string, width int) []string {
	if width < 16 {
		return []string{text}
	}
	return strings.Split(ansi.Wordwrap(text, width, ""), "\n")
}
