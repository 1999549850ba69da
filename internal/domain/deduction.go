package domain

import (
	"github.com/shopspring/decimal"
)

// SplitMethod selects whether a couple claims a deduction fully on one
// party or evenly across both.
type SplitMethod string

const (
	SplitFull SplitMethod = "full"
	SplitHalf SplitMethod = "half"
)

// Factor returns the share of the statutory amount claimed under the split.
func (s SplitMethod) Factor() decimal.Decimal {
	if s == SplitHalf {
		return decimal.NewFromFloat(0.5)
	}
	return decimal.NewFromInt(1)
}

// Valid reports whether s is a recognized split method
func (s SplitMethod) Valid() bool {
	return s == SplitFull || s == SplitHalf
}

// CityTier classifies the work city for the rent deduction.
type CityTier string

const (
	CityTier1 CityTier = "tier1" // provincial capitals, municipalities, cities specifically designated in the state plan
	CityTier2 CityTier = "tier2" // urban population above one million
	CityTier3 CityTier = "tier3" // everything else
)

// Valid reports whether t is a recognized city tier
func (t CityTier) Valid() bool {
	return t == CityTier1 || t == CityTier2 || t == CityTier3
}

// ShareMethod selects how non-only-children divide elder support.
type ShareMethod string

const (
	ShareAverage  ShareMethod = "average"
	ShareSpecific ShareMethod = "specific"
)

// Valid reports whether m is a recognized share method
func (m ShareMethod) Valid() bool {
	return m == ShareAverage || m == ShareSpecific
}

// Category identifies one of the seven deduction categories.
type Category string

const (
	CategoryChildren            Category = "children_education"
	CategoryInfant              Category = "infant_care"
	CategoryContinuingEducation Category = "continuing_education"
	CategoryHousingLoan         Category = "housing_loan"
	CategoryHousingRent         Category = "housing_rent"
	CategoryElderSupport        Category = "elder_support"
	CategorySeriousIllness      Category = "serious_illness"
)

// MonthlyCategories lists the categories that contribute to the monthly
// total, in declaration order. Serious illness is annual-only.
var MonthlyCategories = []Category{
	CategoryChildren,
	CategoryInfant,
	CategoryContinuingEducation,
	CategoryHousingLoan,
	CategoryHousingRent,
	CategoryElderSupport,
}

// DisplayName returns the human-readable category name.
func (c Category) DisplayName() string {
	switch c {
	case CategoryChildren:
		return "Children's education"
	case CategoryInfant:
		return "Infant care (under 3)"
	case CategoryContinuingEducation:
		return "Continuing education"
	case CategoryHousingLoan:
		return "Housing loan interest"
	case CategoryHousingRent:
		return "Housing rent"
	case CategoryElderSupport:
		return "Elder support"
	case CategorySeriousIllness:
		return "Serious illness medical"
	default:
		return string(c)
	}
}

// ChildrenEducation is the per-child education deduction.
type ChildrenEducation struct {
	Enabled bool        `yaml:"enabled" json:"enabled"`
	Count   int         `yaml:"count" json:"count" validate:"min=1"`
	Split   SplitMethod `yaml:"split" json:"split" validate:"oneof=full half"`
}

// InfantCare is the care deduction for children under three.
type InfantCare struct {
	Enabled bool        `yaml:"enabled" json:"enabled"`
	Count   int         `yaml:"count" json:"count" validate:"min=1"`
	Split   SplitMethod `yaml:"split" json:"split" validate:"oneof=full half"`
}

// ContinuingEducation covers academic (degree) study and professional
// qualification certificates. Both may be claimed together.
type ContinuingEducation struct {
	Enabled      bool `yaml:"enabled" json:"enabled"`
	Academic     bool `yaml:"academic" json:"academic"`
	Professional bool `yaml:"professional" json:"professional"`
}

// HousingLoan is the first-home mortgage interest deduction.
type HousingLoan struct {
	Enabled bool        `yaml:"enabled" json:"enabled"`
	Split   SplitMethod `yaml:"split" json:"split" validate:"oneof=full half"`
}

// HousingRent is the rent deduction. It cannot be claimed together with
// HousingLoan.
type HousingRent struct {
	Enabled  bool     `yaml:"enabled" json:"enabled"`
	CityTier CityTier `yaml:"city_tier" json:"city_tier" validate:"oneof=tier1 tier2 tier3"`
}

// ElderSupport is the deduction for supporting parents aged 60 or over.
// SiblingCount only matters for non-only-children sharing evenly and
// ShareAmount only for non-only-children with an agreed split.
type ElderSupport struct {
	Enabled      bool            `yaml:"enabled" json:"enabled"`
	IsOnlyChild  bool            `yaml:"is_only_child" json:"is_only_child"`
	Share        ShareMethod     `yaml:"share" json:"share" validate:"oneof=average specific"`
	SiblingCount int             `yaml:"sibling_count" json:"sibling_count" validate:"min=0"`
	ShareAmount  decimal.Decimal `yaml:"share_amount" json:"share_amount"`
}

// SeriousIllness is the annual-only medical deduction. It is settled at
// annual reconciliation and never enters the monthly total.
type SeriousIllness struct {
	Enabled       bool            `yaml:"enabled" json:"enabled"`
	AnnualSelfPay decimal.Decimal `yaml:"annual_self_pay" json:"annual_self_pay"`
}

// DeductionInput is the snapshot of declared facts the calculator works on.
type DeductionInput struct {
	Children            ChildrenEducation   `yaml:"children" json:"children"`
	Infant              InfantCare          `yaml:"infant" json:"infant"`
	ContinuingEducation ContinuingEducation `yaml:"continuing_education" json:"continuing_education"`
	HousingLoan         HousingLoan         `yaml:"housing_loan" json:"housing_loan"`
	HousingRent         HousingRent         `yaml:"housing_rent" json:"housing_rent"`
	ElderSupport        ElderSupport        `yaml:"elder_support" json:"elder_support"`
	SeriousIllness      SeriousIllness      `yaml:"serious_illness" json:"serious_illness"`
}

// NewDeductionInput returns the input a new declaration starts from: every
// category disabled and the sub-options seeded with their defaults.
func NewDeductionInput() DeductionInput {
	return DeductionInput{
		Children:            ChildrenEducation{Count: 1, Split: SplitFull},
		Infant:              InfantCare{Count: 1, Split: SplitFull},
		ContinuingEducation: ContinuingEducation{},
		HousingLoan:         HousingLoan{Split: SplitFull},
		HousingRent:         HousingRent{CityTier: CityTier1},
		ElderSupport: ElderSupport{
			IsOnlyChild:  true,
			Share:        ShareAverage,
			SiblingCount: 2,
			ShareAmount:  decimal.NewFromInt(1000),
		},
		SeriousIllness: SeriousIllness{AnnualSelfPay: decimal.Zero},
	}
}

// Enabled reports whether the given category is switched on.
func (in DeductionInput) Enabled(c Category) bool {
	switch c {
	case CategoryChildren:
		return in.Children.Enabled
	case CategoryInfant:
		return in.Infant.Enabled
	case CategoryContinuingEducation:
		return in.ContinuingEducation.Enabled
	case CategoryHousingLoan:
		return in.HousingLoan.Enabled
	case CategoryHousingRent:
		return in.HousingRent.Enabled
	case CategoryElderSupport:
		return in.ElderSupport.Enabled
	case CategorySeriousIllness:
		return in.SeriousIllness.Enabled
	}
	return false
}

// BreakdownItem is one itemized row of the monthly breakdown.
type BreakdownItem struct {
	Category      Category        `yaml:"category" json:"category"`
	Name          string          `yaml:"name" json:"name"`
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
	Detail        string          `yaml:"detail" json:"detail"`
}

// DeductionResult is derived from a DeductionInput and recomputed from
// scratch on every change.
type DeductionResult struct {
	MonthlyTotal           decimal.Decimal `yaml:"monthly_total" json:"monthly_total"`
	Breakdown              []BreakdownItem `yaml:"breakdown" json:"breakdown"`
	IllnessEnabled         bool            `yaml:"illness_enabled" json:"illness_enabled"`
	AnnualIllnessDeduction decimal.Decimal `yaml:"annual_illness_deduction" json:"annual_illness_deduction"`
	AnnualTotal            decimal.Decimal `yaml:"annual_total" json:"annual_total"`
}

// IsEmpty reports whether nothing at all was declared.
func (r DeductionResult) IsEmpty() bool {
	return len(r.Breakdown) == 0 && !r.IllnessEnabled
}
