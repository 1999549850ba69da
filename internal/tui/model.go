package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/deductgo/internal/calculation"
	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/rgehrsitz/deductgo/internal/output"
	"github.com/rgehrsitz/deductgo/internal/wizard"
)

// Model is the application state. The wizard session owns the declaration
// and the current step; the model only tracks what is on screen.
type Model struct {
	ctx     context.Context
	session *wizard.Session

	// Terminal dimensions
	width  int
	height int

	// Declare screen
	cursor      int
	amountInput textinput.Model
	editing     bool
	confirming  bool
	pending     domain.Category

	showGuide bool
	submitted *domain.DeductionResult
	status    string
	err       error
}

// NewModel creates a model around an existing session
func NewModel(ctx context.Context, session *wizard.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g., 1000"
	ti.CharLimit = 12
	ti.Width = 16

	return Model{
		ctx:         ctx,
		session:     session,
		amountInput: ti,
		width:       80,
		height:      24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

// Session returns the wizard session behind the model
func (m Model) Session() *wizard.Session {
	return m.session
}

// row is one line of the declare screen.
type row struct {
	kind     rowKind
	field    field
	category domain.Category
	label    string
	value    string
}

var declareOrder = append(append([]domain.Category{}, domain.MonthlyCategories...), domain.CategorySeriousIllness)

// rows lays out the declare screen: one toggle per category, followed by
// that category's options while it is enabled.
func rows(in domain.DeductionInput) []row {
	var out []row
	for _, c := range declareOrder {
		out = append(out, row{kind: rowToggle, field: fieldCategory, category: c, label: c.DisplayName()})
		if !in.Enabled(c) {
			continue
		}
		switch c {
		case domain.CategoryChildren:
			out = append(out,
				row{kind: rowCounter, field: fieldChildrenCount, label: "Children", value: fmt.Sprint(in.Children.Count)},
				row{kind: rowOption, field: fieldChildrenSplit, label: "Claimed", value: splitText(in.Children.Split)},
			)
		case domain.CategoryInfant:
			out = append(out,
				row{kind: rowCounter, field: fieldInfantCount, label: "Infants", value: fmt.Sprint(in.Infant.Count)},
				row{kind: rowOption, field: fieldInfantSplit, label: "Claimed", value: splitText(in.Infant.Split)},
			)
		case domain.CategoryContinuingEducation:
			out = append(out,
				row{kind: rowCheck, field: fieldAcademic, label: "Academic degree", value: checkText(in.ContinuingEducation.Academic)},
				row{kind: rowCheck, field: fieldProfessional, label: "Professional certificate this year", value: checkText(in.ContinuingEducation.Professional)},
			)
		case domain.CategoryHousingLoan:
			out = append(out, row{kind: rowOption, field: fieldLoanSplit, label: "Claimed", value: splitText(in.HousingLoan.Split)})
		case domain.CategoryHousingRent:
			out = append(out, row{kind: rowOption, field: fieldRentTier, label: "Work city", value: calculation.TierLabel(in.HousingRent.CityTier)})
		case domain.CategoryElderSupport:
			elder := in.ElderSupport
			out = append(out, row{kind: rowCheck, field: fieldElderOnlyChild, label: "Only child", value: checkText(elder.IsOnlyChild)})
			if elder.IsOnlyChild {
				break
			}
			out = append(out, row{kind: rowOption, field: fieldElderShare, label: "Sharing", value: shareText(elder.Share)})
			if elder.Share == domain.ShareSpecific {
				out = append(out, row{kind: rowAmount, field: fieldElderAmount, label: "Agreed monthly share", value: output.FormatCurrency(elder.ShareAmount)})
			} else {
				out = append(out, row{kind: rowCounter, field: fieldElderSiblings, label: "Children sharing", value: fmt.Sprint(elder.SiblingCount)})
			}
		case domain.CategorySeriousIllness:
			out = append(out, row{kind: rowAmount, field: fieldIllnessPay, label: "Self-paid medical this year", value: output.FormatCurrency(in.SeriousIllness.AnnualSelfPay)})
		}
	}
	return out
}

func splitText(s domain.SplitMethod) string {
	if s == domain.SplitHalf {
		return "split 50/50"
	}
	return "in full"
}

func shareText(s domain.ShareMethod) string {
	if s == domain.ShareSpecific {
		return "by agreement"
	}
	return "evenly"
}

func checkText(on bool) string {
	if on {
		return "yes"
	}
	return "no"
}
