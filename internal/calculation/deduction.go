package calculation

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/shopspring/decimal"
)

// DEDUCTION CALCULATION RULES:
//
// 1. Children / infant care: rate x split factor x count, no cap.
// 2. Continuing education: academic monthly rate plus the professional
//    annual amount spread over 12 months. A zero total is left out of the
//    breakdown; no other category gets that treatment.
// 3. Housing loan: rate x split factor. Housing rent: tier lookup, only
//    when the loan is not claimed (see ApplyHousingPrecedence).
// 4. Elder support: only child gets the flat amount; siblings sharing
//    evenly get floor(family cap / siblings); an agreed share is capped
//    at the per-person ceiling.
// 5. Serious illness: min(max(0, self pay - threshold), limit), annual
//    only and outside the monthly total.

var monthsPerYear = decimal.NewFromInt(12)

// DeductionCalculator applies a rule table to declared facts. It keeps no
// state between calls; Compute may be invoked on every edit.
type DeductionCalculator struct {
	Rules  domain.RuleTable
	Logger Logger
}

// NewDeductionCalculator creates a calculator bound to a rule table
func NewDeductionCalculator(rules domain.RuleTable) *DeductionCalculator {
	return &DeductionCalculator{Rules: rules, Logger: NopLogger{}}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (dc *DeductionCalculator) SetLogger(l Logger) {
	if l == nil {
		dc.Logger = NopLogger{}
		return
	}
	dc.Logger = l
}

// Compute is the stateless form of DeductionCalculator.Compute.
func Compute(input domain.DeductionInput, rules domain.RuleTable) domain.DeductionResult {
	return NewDeductionCalculator(rules).Compute(input)
}

// ApplyHousingPrecedence returns a copy of input in which the rent
// deduction is switched off whenever the loan deduction is on. The loan
// always wins, whatever the rent flag says.
func ApplyHousingPrecedence(input domain.DeductionInput) domain.DeductionInput {
	if input.HousingLoan.Enabled {
		input.HousingRent.Enabled = false
	}
	return input
}

// Compute derives the itemized monthly breakdown and the annual totals.
// It never fails and never modifies input.
func (dc *DeductionCalculator) Compute(input domain.DeductionInput) domain.DeductionResult {
	logger := dc.Logger
	if logger == nil {
		logger = NopLogger{}
	}

	if input.HousingLoan.Enabled && input.HousingRent.Enabled {
		logger.Warnf("housing rent suppressed: housing loan takes precedence")
	}
	effective := ApplyHousingPrecedence(input)

	result := domain.DeductionResult{
		MonthlyTotal:           decimal.Zero,
		Breakdown:              []domain.BreakdownItem{},
		AnnualIllnessDeduction: decimal.Zero,
	}

	for _, category := range domain.MonthlyCategories {
		if !effective.Enabled(category) {
			continue
		}
		amount, detail := dc.monthly(category, effective)
		result.MonthlyTotal = result.MonthlyTotal.Add(amount)

		if category == domain.CategoryContinuingEducation && amount.IsZero() {
			logger.Debugf("%s enabled with no qualifying study, row omitted", category)
			continue
		}
		result.Breakdown = append(result.Breakdown, domain.BreakdownItem{
			Category:      category,
			Name:          category.DisplayName(),
			MonthlyAmount: amount,
			Detail:        detail,
		})
		logger.Debugf("%s: %s/month (%s)", category, amount.String(), detail)
	}

	if effective.SeriousIllness.Enabled {
		result.IllnessEnabled = true
		result.AnnualIllnessDeduction = dc.seriousIllness(effective.SeriousIllness)
		logger.Debugf("%s: %s/year", domain.CategorySeriousIllness, result.AnnualIllnessDeduction.String())
	}

	result.AnnualTotal = result.MonthlyTotal.Mul(monthsPerYear).Add(result.AnnualIllnessDeduction)
	logger.Debugf("monthly total %s, annual total %s", result.MonthlyTotal.String(), result.AnnualTotal.String())
	return result
}

// monthly dispatches to the per-category rule
func (dc *DeductionCalculator) monthly(category domain.Category, in domain.DeductionInput) (decimal.Decimal, string) {
	switch category {
	case domain.CategoryChildren:
		return dc.perHead(dc.Rules.ChildPerMonth, in.Children.Count, in.Children.Split),
			fmt.Sprintf("%d %s, %s", in.Children.Count, plural(in.Children.Count, "child", "children"), splitLabel(in.Children.Split))
	case domain.CategoryInfant:
		return dc.perHead(dc.Rules.InfantPerMonth, in.Infant.Count, in.Infant.Split),
			fmt.Sprintf("%d %s, %s", in.Infant.Count, plural(in.Infant.Count, "infant", "infants"), splitLabel(in.Infant.Split))
	case domain.CategoryContinuingEducation:
		return dc.continuingEducation(in.ContinuingEducation)
	case domain.CategoryHousingLoan:
		return dc.Rules.LoanMonth.Mul(in.HousingLoan.Split.Factor()), loanLabel(in.HousingLoan.Split)
	case domain.CategoryHousingRent:
		return dc.Rules.RentFor(in.HousingRent.CityTier), TierLabel(in.HousingRent.CityTier)
	case domain.CategoryElderSupport:
		return dc.elderSupport(in.ElderSupport)
	}
	return decimal.Zero, ""
}

func (dc *DeductionCalculator) perHead(rate decimal.Decimal, count int, split domain.SplitMethod) decimal.Decimal {
	return rate.Mul(split.Factor()).Mul(decimal.NewFromInt(int64(count)))
}

func (dc *DeductionCalculator) continuingEducation(edu domain.ContinuingEducation) (decimal.Decimal, string) {
	amount := decimal.Zero
	var kinds []string
	if edu.Academic {
		amount = amount.Add(dc.Rules.EduAcademicMonth)
		kinds = append(kinds, "academic")
	}
	if edu.Professional {
		// annual amount spread evenly; rounding is left to display
		amount = amount.Add(dc.Rules.EduProfessionalYear.Div(monthsPerYear))
		kinds = append(kinds, "professional qualification")
	}
	return amount, strings.Join(kinds, " + ")
}

func (dc *DeductionCalculator) elderSupport(elder domain.ElderSupport) (decimal.Decimal, string) {
	if elder.IsOnlyChild {
		return dc.Rules.ElderlyOnlyChildMonth, "only child"
	}
	if elder.Share == domain.ShareSpecific {
		return decimal.Min(elder.ShareAmount, dc.Rules.ElderlyPerPersonCap), "shared by agreement"
	}
	siblings := elder.SiblingCount
	if siblings < 1 {
		siblings = 1
	}
	amount := dc.Rules.ElderlyFamilyCap.Div(decimal.NewFromInt(int64(siblings))).Floor()
	return amount, fmt.Sprintf("shared evenly among %d", siblings)
}

func (dc *DeductionCalculator) seriousIllness(illness domain.SeriousIllness) decimal.Decimal {
	deductible := decimal.Max(decimal.Zero, illness.AnnualSelfPay.Sub(dc.Rules.IllnessThreshold))
	return decimal.Min(deductible, dc.Rules.IllnessLimit)
}

func splitLabel(s domain.SplitMethod) string {
	if s == domain.SplitHalf {
		return "split 50/50"
	}
	return "claimed in full"
}

func loanLabel(s domain.SplitMethod) string {
	if s == domain.SplitHalf {
		return "split between spouses (50%)"
	}
	return "claimed by self (100%)"
}

// TierLabel describes a city tier for display
func TierLabel(t domain.CityTier) string {
	switch t {
	case domain.CityTier1:
		return "provincial capital / municipality"
	case domain.CityTier2:
		return "large city (over 1M residents)"
	default:
		return "small or medium city"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
