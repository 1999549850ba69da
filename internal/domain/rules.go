package domain

import (
	"github.com/shopspring/decimal"
)

// RuleTable holds the statutory deduction amounts. It is loaded once at
// startup (see rules.yaml) and passed by value to the calculator, so a
// yearly rate change never touches calculation code.
type RuleTable struct {
	Metadata              RuleMetadata    `yaml:"metadata" json:"metadata"`
	ChildPerMonth         decimal.Decimal `yaml:"child_per_month" json:"child_per_month"`
	InfantPerMonth        decimal.Decimal `yaml:"infant_per_month" json:"infant_per_month"`
	EduAcademicMonth      decimal.Decimal `yaml:"edu_academic_month" json:"edu_academic_month"`
	EduProfessionalYear   decimal.Decimal `yaml:"edu_professional_year" json:"edu_professional_year"`
	LoanMonth             decimal.Decimal `yaml:"loan_month" json:"loan_month"`
	ElderlyOnlyChildMonth decimal.Decimal `yaml:"elderly_only_child_month" json:"elderly_only_child_month"`
	ElderlyFamilyCap      decimal.Decimal `yaml:"elderly_family_cap" json:"elderly_family_cap"`
	ElderlyPerPersonCap   decimal.Decimal `yaml:"elderly_per_person_cap" json:"elderly_per_person_cap"`
	RentTier1             decimal.Decimal `yaml:"rent_tier1" json:"rent_tier1"`
	RentTier2             decimal.Decimal `yaml:"rent_tier2" json:"rent_tier2"`
	RentTier3             decimal.Decimal `yaml:"rent_tier3" json:"rent_tier3"`
	IllnessThreshold      decimal.Decimal `yaml:"illness_threshold" json:"illness_threshold"`
	IllnessLimit          decimal.Decimal `yaml:"illness_limit" json:"illness_limit"`
}

// RuleMetadata describes where a rule table comes from.
type RuleMetadata struct {
	DataYear    int    `yaml:"data_year" json:"data_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// DefaultRuleTable returns the 2025 statutory amounts.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		Metadata: RuleMetadata{
			DataYear:    2025,
			Description: "Individual income tax special additional deduction standards",
		},
		ChildPerMonth:         decimal.NewFromInt(1000),
		InfantPerMonth:        decimal.NewFromInt(1000),
		EduAcademicMonth:      decimal.NewFromInt(400),
		EduProfessionalYear:   decimal.NewFromInt(3600),
		LoanMonth:             decimal.NewFromInt(1000),
		ElderlyOnlyChildMonth: decimal.NewFromInt(2000),
		ElderlyFamilyCap:      decimal.NewFromInt(2000),
		ElderlyPerPersonCap:   decimal.NewFromInt(1000),
		RentTier1:             decimal.NewFromInt(1500),
		RentTier2:             decimal.NewFromInt(1100),
		RentTier3:             decimal.NewFromInt(800),
		IllnessThreshold:      decimal.NewFromInt(15000),
		IllnessLimit:          decimal.NewFromInt(80000),
	}
}

// RentFor returns the monthly rent deduction for a city tier. Unknown
// tiers fall back to the smallest amount.
func (r RuleTable) RentFor(tier CityTier) decimal.Decimal {
	switch tier {
	case CityTier1:
		return r.RentTier1
	case CityTier2:
		return r.RentTier2
	default:
		return r.RentTier3
	}
}
