package calculation

import (
	"testing"

	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, expected.Equal(actual), append([]interface{}{"expected %s, got %s", expected.String(), actual.String()}, msgAndArgs...)...)
}

func TestNewDeductionCalculator(t *testing.T) {
	calc := NewDeductionCalculator(domain.DefaultRuleTable())

	assert.NotNil(t, calc, "Should create calculator")
	assert.IsType(t, NopLogger{}, calc.Logger, "Should default to no-op logger")
}

func TestDeductionCalculator_SetLogger(t *testing.T) {
	calc := NewDeductionCalculator(domain.DefaultRuleTable())

	customLogger := &TestLogger{}
	calc.SetLogger(customLogger)
	assert.Equal(t, customLogger, calc.Logger, "Should set custom logger")

	calc.SetLogger(nil)
	assert.IsType(t, NopLogger{}, calc.Logger, "Should fall back to no-op logger")
}

func TestCompute_AllDisabled(t *testing.T) {
	result := Compute(domain.NewDeductionInput(), domain.DefaultRuleTable())

	assertDecimal(t, decimal.Zero, result.MonthlyTotal)
	assert.Empty(t, result.Breakdown)
	assertDecimal(t, decimal.Zero, result.AnnualIllnessDeduction)
	assertDecimal(t, decimal.Zero, result.AnnualTotal)
	assert.False(t, result.IllnessEnabled)
	assert.True(t, result.IsEmpty())
}

func TestCompute_Children(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		split    domain.SplitMethod
		expected int64
	}{
		{"one child full", 1, domain.SplitFull, 1000},
		{"two children half", 2, domain.SplitHalf, 1000},
		{"three children full", 3, domain.SplitFull, 3000},
		{"three children half", 3, domain.SplitHalf, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := domain.NewDeductionInput()
			input.Children = domain.ChildrenEducation{Enabled: true, Count: tt.count, Split: tt.split}

			result := Compute(input, domain.DefaultRuleTable())

			require.Len(t, result.Breakdown, 1)
			assert.Equal(t, domain.CategoryChildren, result.Breakdown[0].Category)
			assertDecimal(t, d(tt.expected), result.Breakdown[0].MonthlyAmount)
			assertDecimal(t, d(tt.expected), result.MonthlyTotal)
		})
	}
}

func TestCompute_InfantUsesItsOwnRate(t *testing.T) {
	rules := domain.DefaultRuleTable()
	rules.InfantPerMonth = d(2000)

	input := domain.NewDeductionInput()
	input.Infant = domain.InfantCare{Enabled: true, Count: 2, Split: domain.SplitHalf}

	result := Compute(input, rules)

	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, domain.CategoryInfant, result.Breakdown[0].Category)
	assertDecimal(t, d(2000), result.Breakdown[0].MonthlyAmount)
	assert.Equal(t, "2 infants, split 50/50", result.Breakdown[0].Detail)
}

func TestCompute_ContinuingEducation(t *testing.T) {
	tests := []struct {
		name         string
		academic     bool
		professional bool
		expected     int64
		rows         int
		detail       string
	}{
		{"neither", false, false, 0, 0, ""},
		{"academic only", true, false, 400, 1, "academic"},
		{"professional only", false, true, 300, 1, "professional qualification"},
		{"both", true, true, 700, 1, "academic + professional qualification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := domain.NewDeductionInput()
			input.ContinuingEducation = domain.ContinuingEducation{Enabled: true, Academic: tt.academic, Professional: tt.professional}

			result := Compute(input, domain.DefaultRuleTable())

			require.Len(t, result.Breakdown, tt.rows)
			assertDecimal(t, d(tt.expected), result.MonthlyTotal)
			if tt.rows == 1 {
				assert.Equal(t, tt.detail, result.Breakdown[0].Detail)
			}
		})
	}
}

func TestCompute_ProfessionalEducationKeepsFraction(t *testing.T) {
	rules := domain.DefaultRuleTable()
	rules.EduProfessionalYear = d(1000)

	input := domain.NewDeductionInput()
	input.ContinuingEducation = domain.ContinuingEducation{Enabled: true, Professional: true}

	result := Compute(input, rules)

	require.Len(t, result.Breakdown, 1)
	assertDecimal(t, d(1000).Div(d(12)), result.Breakdown[0].MonthlyAmount)
	assert.Equal(t, "83.33", result.Breakdown[0].MonthlyAmount.StringFixed(2))
}

func TestCompute_ZeroRowSuppressionIsEducationOnly(t *testing.T) {
	rules := domain.DefaultRuleTable()
	rules.LoanMonth = decimal.Zero

	input := domain.NewDeductionInput()
	input.HousingLoan = domain.HousingLoan{Enabled: true, Split: domain.SplitFull}

	result := Compute(input, rules)

	require.Len(t, result.Breakdown, 1, "Zero-value loan row should still be listed")
	assertDecimal(t, decimal.Zero, result.Breakdown[0].MonthlyAmount)
}

func TestCompute_HousingLoan(t *testing.T) {
	input := domain.NewDeductionInput()
	input.HousingLoan = domain.HousingLoan{Enabled: true, Split: domain.SplitHalf}

	result := Compute(input, domain.DefaultRuleTable())

	require.Len(t, result.Breakdown, 1)
	assertDecimal(t, d(500), result.Breakdown[0].MonthlyAmount)
	assert.Equal(t, "split between spouses (50%)", result.Breakdown[0].Detail)
}

func TestCompute_HousingRentTiers(t *testing.T) {
	tests := []struct {
		tier     domain.CityTier
		expected int64
	}{
		{domain.CityTier1, 1500},
		{domain.CityTier2, 1100},
		{domain.CityTier3, 800},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			input := domain.NewDeductionInput()
			input.HousingRent = domain.HousingRent{Enabled: true, CityTier: tt.tier}

			result := Compute(input, domain.DefaultRuleTable())

			require.Len(t, result.Breakdown, 1)
			assert.Equal(t, domain.CategoryHousingRent, result.Breakdown[0].Category)
			assertDecimal(t, d(tt.expected), result.Breakdown[0].MonthlyAmount)
			assert.Equal(t, TierLabel(tt.tier), result.Breakdown[0].Detail)
		})
	}
}

func TestCompute_LoanTakesPrecedenceOverRent(t *testing.T) {
	input := domain.NewDeductionInput()
	input.HousingLoan = domain.HousingLoan{Enabled: true, Split: domain.SplitFull}
	input.HousingRent = domain.HousingRent{Enabled: true, CityTier: domain.CityTier1}

	logger := &TestLogger{}
	calc := NewDeductionCalculator(domain.DefaultRuleTable())
	calc.SetLogger(logger)
	result := calc.Compute(input)

	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, domain.CategoryHousingLoan, result.Breakdown[0].Category)
	assertDecimal(t, d(1000), result.MonthlyTotal)
	assert.Contains(t, logger.messages, "WARN: housing rent suppressed: housing loan takes precedence")
	assert.True(t, input.HousingRent.Enabled, "Should not modify the caller's input")
}

func TestApplyHousingPrecedence(t *testing.T) {
	input := domain.NewDeductionInput()
	input.HousingRent.Enabled = true

	assert.True(t, ApplyHousingPrecedence(input).HousingRent.Enabled, "Rent alone is untouched")

	input.HousingLoan.Enabled = true
	effective := ApplyHousingPrecedence(input)
	assert.False(t, effective.HousingRent.Enabled, "Loan suppresses rent")
	assert.True(t, effective.HousingLoan.Enabled)
	assert.True(t, input.HousingRent.Enabled, "Operates on a copy")
}

func TestCompute_ElderSupport(t *testing.T) {
	tests := []struct {
		name     string
		elder    domain.ElderSupport
		expected int64
		detail   string
	}{
		{
			name:     "only child",
			elder:    domain.ElderSupport{Enabled: true, IsOnlyChild: true, Share: domain.ShareSpecific, ShareAmount: d(10)},
			expected: 2000,
			detail:   "only child",
		},
		{
			name:     "average two siblings",
			elder:    domain.ElderSupport{Enabled: true, Share: domain.ShareAverage, SiblingCount: 2},
			expected: 1000,
			detail:   "shared evenly among 2",
		},
		{
			name:     "average three siblings floors",
			elder:    domain.ElderSupport{Enabled: true, Share: domain.ShareAverage, SiblingCount: 3},
			expected: 666,
			detail:   "shared evenly among 3",
		},
		{
			name:     "average zero siblings clamps to one",
			elder:    domain.ElderSupport{Enabled: true, Share: domain.ShareAverage, SiblingCount: 0},
			expected: 2000,
			detail:   "shared evenly among 1",
		},
		{
			name:     "specific below cap",
			elder:    domain.ElderSupport{Enabled: true, Share: domain.ShareSpecific, ShareAmount: d(600)},
			expected: 600,
			detail:   "shared by agreement",
		},
		{
			name:     "specific above per-person cap",
			elder:    domain.ElderSupport{Enabled: true, Share: domain.ShareSpecific, ShareAmount: d(5000)},
			expected: 1000,
			detail:   "shared by agreement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := domain.NewDeductionInput()
			input.ElderSupport = tt.elder

			result := Compute(input, domain.DefaultRuleTable())

			require.Len(t, result.Breakdown, 1)
			assertDecimal(t, d(tt.expected), result.Breakdown[0].MonthlyAmount)
			assert.Equal(t, tt.detail, result.Breakdown[0].Detail)
			assert.True(t, result.Breakdown[0].MonthlyAmount.LessThanOrEqual(d(2000)), "Never above the family cap")
		})
	}
}

func TestCompute_SeriousIllness(t *testing.T) {
	tests := []struct {
		name     string
		selfPay  int64
		expected int64
	}{
		{"nothing paid", 0, 0},
		{"below threshold", 10000, 0},
		{"at threshold", 15000, 0},
		{"above threshold", 30000, 15000},
		{"at ceiling", 95000, 80000},
		{"capped", 100000, 80000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := domain.NewDeductionInput()
			input.SeriousIllness = domain.SeriousIllness{Enabled: true, AnnualSelfPay: d(tt.selfPay)}

			result := Compute(input, domain.DefaultRuleTable())

			assert.True(t, result.IllnessEnabled)
			assert.Empty(t, result.Breakdown, "Illness is never a monthly row")
			assertDecimal(t, decimal.Zero, result.MonthlyTotal)
			assertDecimal(t, d(tt.expected), result.AnnualIllnessDeduction)
			assertDecimal(t, d(tt.expected), result.AnnualTotal)
			assert.False(t, result.IsEmpty())
		})
	}
}

func TestCompute_SeriousIllnessDisabledIgnoresSelfPay(t *testing.T) {
	input := domain.NewDeductionInput()
	input.SeriousIllness.AnnualSelfPay = d(100000)

	result := Compute(input, domain.DefaultRuleTable())

	assertDecimal(t, decimal.Zero, result.AnnualIllnessDeduction)
	assert.False(t, result.IllnessEnabled)
}

func fullDeclaration() domain.DeductionInput {
	input := domain.NewDeductionInput()
	input.Children = domain.ChildrenEducation{Enabled: true, Count: 2, Split: domain.SplitFull}
	input.Infant = domain.InfantCare{Enabled: true, Count: 1, Split: domain.SplitHalf}
	input.ContinuingEducation = domain.ContinuingEducation{Enabled: true, Academic: true, Professional: true}
	input.HousingRent = domain.HousingRent{Enabled: true, CityTier: domain.CityTier2}
	input.ElderSupport = domain.ElderSupport{Enabled: true, Share: domain.ShareAverage, SiblingCount: 3}
	input.SeriousIllness = domain.SeriousIllness{Enabled: true, AnnualSelfPay: d(20000)}
	return input
}

func TestCompute_BreakdownOrderAndTotals(t *testing.T) {
	result := Compute(fullDeclaration(), domain.DefaultRuleTable())

	var order []domain.Category
	for _, item := range result.Breakdown {
		order = append(order, item.Category)
		assert.Equal(t, item.Category.DisplayName(), item.Name)
	}
	assert.Equal(t, []domain.Category{
		domain.CategoryChildren,
		domain.CategoryInfant,
		domain.CategoryContinuingEducation,
		domain.CategoryHousingRent,
		domain.CategoryElderSupport,
	}, order)

	// 2000 + 500 + 700 + 1100 + 666
	assertDecimal(t, d(4966), result.MonthlyTotal)
	assertDecimal(t, d(5000), result.AnnualIllnessDeduction)
	assertDecimal(t, d(4966*12+5000), result.AnnualTotal)
}

func TestCompute_AnnualTotalIdentity(t *testing.T) {
	inputs := []domain.DeductionInput{domain.NewDeductionInput(), fullDeclaration()}

	professional := domain.NewDeductionInput()
	professional.ContinuingEducation = domain.ContinuingEducation{Enabled: true, Professional: true}
	professional.SeriousIllness = domain.SeriousIllness{Enabled: true, AnnualSelfPay: d(99999)}
	inputs = append(inputs, professional)

	for i, input := range inputs {
		result := Compute(input, domain.DefaultRuleTable())
		expected := result.MonthlyTotal.Mul(d(12)).Add(result.AnnualIllnessDeduction)
		assertDecimal(t, expected, result.AnnualTotal, "input %d", i)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	calc := NewDeductionCalculator(domain.DefaultRuleTable())
	input := fullDeclaration()

	first := calc.Compute(input)
	second := calc.Compute(input)

	assert.Equal(t, first, second, "Repeated calls should be identical")
	assert.Equal(t, fullDeclaration(), input, "Input should be unchanged")
}

func TestCompute_UsesInjectedRules(t *testing.T) {
	rules := domain.DefaultRuleTable()
	rules.ChildPerMonth = d(2000)
	rules.RentTier3 = d(900)

	input := domain.NewDeductionInput()
	input.Children = domain.ChildrenEducation{Enabled: true, Count: 1, Split: domain.SplitFull}
	input.HousingRent = domain.HousingRent{Enabled: true, CityTier: domain.CityTier3}

	result := Compute(input, rules)

	assertDecimal(t, d(2900), result.MonthlyTotal)
}

// TestLogger records messages for assertions
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
