package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidDeclaration is returned when declared facts fail validation.
	ErrInvalidDeclaration = errors.New("invalid declaration")
	// ErrInvalidRules is returned when a rule table fails validation.
	ErrInvalidRules = errors.New("invalid rule table")
)

// InputParser handles parsing of declaration and rule files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{validate: NewValidator()}
}

// NewValidator returns a validator that reads the `validate` tags on the
// domain types.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadDeclaration loads declared facts from a YAML or JSON file. Fields the
// file leaves out keep the values of a fresh declaration.
func (ip *InputParser) LoadDeclaration(filename string) (*domain.DeductionInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseDeclaration(data)
}

// ParseDeclaration parses and validates declaration bytes
func (ip *InputParser) ParseDeclaration(data []byte) (*domain.DeductionInput, error) {
	input := domain.NewDeductionInput()
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateDeclaration(&input); err != nil {
		return nil, err
	}
	return &input, nil
}

// ValidateDeclaration enforces the edit-boundary constraints the calculator
// relies on: enum membership, counts of at least one, non-negative amounts
// and at most one of housing loan and housing rent.
func (ip *InputParser) ValidateDeclaration(input *domain.DeductionInput) error {
	if err := ip.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDeclaration, describeValidation(err))
	}
	if input.ElderSupport.ShareAmount.IsNegative() {
		return fmt.Errorf("%w: elder support share amount cannot be negative", ErrInvalidDeclaration)
	}
	if input.SeriousIllness.AnnualSelfPay.IsNegative() {
		return fmt.Errorf("%w: serious illness self pay cannot be negative", ErrInvalidDeclaration)
	}
	if input.HousingLoan.Enabled && input.HousingRent.Enabled {
		return fmt.Errorf("%w: housing loan and housing rent cannot both be claimed", ErrInvalidDeclaration)
	}
	return nil
}

// LoadRuleTable loads a rule table from a YAML file
func (ip *InputParser) LoadRuleTable(filename string) (domain.RuleTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.RuleTable{}, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}

	rules := domain.DefaultRuleTable()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return domain.RuleTable{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	if err := ip.ValidateRuleTable(rules); err != nil {
		return domain.RuleTable{}, err
	}
	return rules, nil
}

// ValidateRuleTable checks a rule table for consistency
func (ip *InputParser) ValidateRuleTable(rules domain.RuleTable) error {
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"child_per_month", rules.ChildPerMonth},
		{"infant_per_month", rules.InfantPerMonth},
		{"edu_academic_month", rules.EduAcademicMonth},
		{"edu_professional_year", rules.EduProfessionalYear},
		{"loan_month", rules.LoanMonth},
		{"elderly_only_child_month", rules.ElderlyOnlyChildMonth},
		{"elderly_family_cap", rules.ElderlyFamilyCap},
		{"elderly_per_person_cap", rules.ElderlyPerPersonCap},
		{"rent_tier1", rules.RentTier1},
		{"rent_tier2", rules.RentTier2},
		{"rent_tier3", rules.RentTier3},
		{"illness_threshold", rules.IllnessThreshold},
		{"illness_limit", rules.IllnessLimit},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidRules, a.name)
		}
	}

	if rules.RentTier1.LessThan(rules.RentTier2) || rules.RentTier2.LessThan(rules.RentTier3) {
		return fmt.Errorf("%w: rent tiers must satisfy tier1 >= tier2 >= tier3", ErrInvalidRules)
	}
	if rules.ElderlyPerPersonCap.GreaterThan(rules.ElderlyFamilyCap) {
		return fmt.Errorf("%w: elderly per-person cap cannot exceed the family cap", ErrInvalidRules)
	}
	if rules.ElderlyOnlyChildMonth.GreaterThan(rules.ElderlyFamilyCap) {
		return fmt.Errorf("%w: only-child elder amount cannot exceed the family cap", ErrInvalidRules)
	}
	return nil
}

// describeValidation flattens validator errors into one line
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "DeductionInput.")
		switch fe.Tag() {
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
