// Package wizard drives the declare, review and submit flow around the
// deduction calculator. It owns the mutable declaration; the calculator
// only ever sees snapshots of it.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/deductgo/internal/calculation"
	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/rgehrsitz/deductgo/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTransition is returned when a step change is not allowed
	// from the current step.
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrNotEditable is returned when a field is edited outside the declare step.
	ErrNotEditable = errors.New("declaration can only be edited in the declare step")
	// ErrHousingConflict is returned when the user declines to switch
	// between housing loan and housing rent.
	ErrHousingConflict = errors.New("housing loan and housing rent cannot be claimed together")
)

// HousingConflictPrompt is shown before switching between loan and rent.
const HousingConflictPrompt = "Housing loan interest and housing rent cannot be claimed together. Switch?"

// Step is a screen of the wizard.
type Step int

const (
	StepIntro Step = iota
	StepDeclare
	StepReview
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepIntro:
		return "Intro"
	case StepDeclare:
		return "Declare"
	case StepReview:
		return "Review"
	case StepDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Confirmer asks the user to confirm a prompt.
type Confirmer func(prompt string) bool

// AlwaysConfirm accepts every prompt.
func AlwaysConfirm(string) bool { return true }

// NeverConfirm declines every prompt.
func NeverConfirm(string) bool { return false }

// Session is one pass through the wizard.
type Session struct {
	store     storage.SubmissionStore
	calc      *calculation.DeductionCalculator
	logger    calculation.Logger
	input     domain.DeductionInput
	step      Step
	submitted bool
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger for the session and its calculator
func WithLogger(l calculation.Logger) Option {
	return func(s *Session) {
		s.calc.SetLogger(l)
		s.logger = s.calc.Logger
	}
}

// WithInput starts the session from an existing declaration instead of the
// defaults.
func WithInput(input domain.DeductionInput) Option {
	return func(s *Session) {
		s.input = input
	}
}

// NewSession reads the submission flag once and starts at the intro step.
func NewSession(ctx context.Context, store storage.SubmissionStore, rules domain.RuleTable, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, errors.New("submission store is required")
	}
	s := &Session{
		store:  store,
		calc:   calculation.NewDeductionCalculator(rules),
		logger: calculation.NopLogger{},
		input:  domain.NewDeductionInput(),
		step:   StepIntro,
	}
	for _, opt := range opts {
		opt(s)
	}

	submitted, err := store.Submitted(ctx)
	if err != nil {
		return nil, fmt.Errorf("read submission state: %w", err)
	}
	s.submitted = submitted
	s.logger.Debugf("session started, submitted=%t", submitted)
	return s, nil
}

// Step returns the current step
func (s *Session) Step() Step { return s.step }

// Submitted reports whether a declaration has been submitted, in this or
// an earlier session.
func (s *Session) Submitted() bool { return s.submitted }

// Input returns a copy of the current declaration
func (s *Session) Input() domain.DeductionInput { return s.input }

// Rules returns the rule table in use
func (s *Session) Rules() domain.RuleTable { return s.calc.Rules }

// Result recomputes the breakdown from the current declaration.
func (s *Session) Result() domain.DeductionResult {
	return s.calc.Compute(s.input)
}

// Start moves from the intro (or the already-submitted status page) to
// the declare step.
func (s *Session) Start() error {
	if s.step != StepIntro {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.step)
	}
	return s.moveTo(StepDeclare)
}

// Next moves from declare to review.
func (s *Session) Next() error {
	if s.step != StepDeclare {
		return fmt.Errorf("%w: next from %s", ErrInvalidTransition, s.step)
	}
	return s.moveTo(StepReview)
}

// Back returns from review to declare.
func (s *Session) Back() error {
	if s.step != StepReview {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, s.step)
	}
	return s.moveTo(StepDeclare)
}

// Submit confirms the reviewed declaration, persists the submission flag
// and moves to the done step. On a store failure the session stays in
// review so the user can retry.
func (s *Session) Submit(ctx context.Context) (domain.DeductionResult, error) {
	if s.step != StepReview {
		return domain.DeductionResult{}, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, s.step)
	}
	result := s.Result()
	if err := s.store.SetSubmitted(ctx, true); err != nil {
		s.logger.Errorf("persist submission: %v", err)
		return domain.DeductionResult{}, fmt.Errorf("persist submission: %w", err)
	}
	s.submitted = true
	s.logger.Infof("declaration submitted: monthly %s, annual %s", result.MonthlyTotal.String(), result.AnnualTotal.String())
	return result, s.moveTo(StepDone)
}

// Reset discards the declaration and returns to the intro. The submission
// flag is left as it is.
func (s *Session) Reset() {
	s.input = domain.NewDeductionInput()
	s.step = StepIntro
	s.logger.Debugf("session reset")
}

func (s *Session) moveTo(step Step) error {
	s.logger.Debugf("wizard %s -> %s", s.step, step)
	s.step = step
	return nil
}

func (s *Session) edit(fn func(in *domain.DeductionInput)) error {
	if s.step != StepDeclare {
		return ErrNotEditable
	}
	fn(&s.input)
	return nil
}

// HousingConflict reports whether enabling c would require switching off
// the other housing category.
func (s *Session) HousingConflict(c domain.Category) bool {
	switch c {
	case domain.CategoryHousingLoan:
		return !s.input.HousingLoan.Enabled && s.input.HousingRent.Enabled
	case domain.CategoryHousingRent:
		return !s.input.HousingRent.Enabled && s.input.HousingLoan.Enabled
	}
	return false
}

// Toggle flips a category on or off.
func (s *Session) Toggle(c domain.Category, confirm Confirmer) error {
	return s.SetEnabled(c, !s.input.Enabled(c), confirm)
}

// SetEnabled switches a category on or off. Enabling housing loan while
// housing rent is on (or the reverse) asks confirm first; a refusal leaves
// the declaration unchanged and returns ErrHousingConflict. A nil confirm
// refuses.
func (s *Session) SetEnabled(c domain.Category, on bool, confirm Confirmer) error {
	if s.step != StepDeclare {
		return ErrNotEditable
	}
	if on && s.HousingConflict(c) {
		if confirm == nil || !confirm(HousingConflictPrompt) {
			return ErrHousingConflict
		}
		if c == domain.CategoryHousingLoan {
			s.input.HousingRent.Enabled = false
		} else {
			s.input.HousingLoan.Enabled = false
		}
	}

	switch c {
	case domain.CategoryChildren:
		s.input.Children.Enabled = on
	case domain.CategoryInfant:
		s.input.Infant.Enabled = on
	case domain.CategoryContinuingEducation:
		s.input.ContinuingEducation.Enabled = on
	case domain.CategoryHousingLoan:
		s.input.HousingLoan.Enabled = on
	case domain.CategoryHousingRent:
		s.input.HousingRent.Enabled = on
	case domain.CategoryElderSupport:
		s.input.ElderSupport.Enabled = on
	case domain.CategorySeriousIllness:
		s.input.SeriousIllness.Enabled = on
	default:
		return fmt.Errorf("unknown category %q", c)
	}
	return nil
}

// SetChildrenCount sets the number of children, at least one.
func (s *Session) SetChildrenCount(n int) error {
	return s.edit(func(in *domain.DeductionInput) { in.Children.Count = atLeast(n, 1) })
}

func (s *Session) SetChildrenSplit(split domain.SplitMethod) error {
	if !split.Valid() {
		return fmt.Errorf("unknown split method %q", split)
	}
	return s.edit(func(in *domain.DeductionInput) { in.Children.Split = split })
}

// SetInfantCount sets the number of infants, at least one.
func (s *Session) SetInfantCount(n int) error {
	return s.edit(func(in *domain.DeductionInput) { in.Infant.Count = atLeast(n, 1) })
}

func (s *Session) SetInfantSplit(split domain.SplitMethod) error {
	if !split.Valid() {
		return fmt.Errorf("unknown split method %q", split)
	}
	return s.edit(func(in *domain.DeductionInput) { in.Infant.Split = split })
}

func (s *Session) SetAcademicEducation(on bool) error {
	return s.edit(func(in *domain.DeductionInput) { in.ContinuingEducation.Academic = on })
}

func (s *Session) SetProfessionalEducation(on bool) error {
	return s.edit(func(in *domain.DeductionInput) { in.ContinuingEducation.Professional = on })
}

func (s *Session) SetLoanSplit(split domain.SplitMethod) error {
	if !split.Valid() {
		return fmt.Errorf("unknown split method %q", split)
	}
	return s.edit(func(in *domain.DeductionInput) { in.HousingLoan.Split = split })
}

func (s *Session) SetRentTier(tier domain.CityTier) error {
	if !tier.Valid() {
		return fmt.Errorf("unknown city tier %q", tier)
	}
	return s.edit(func(in *domain.DeductionInput) { in.HousingRent.CityTier = tier })
}

func (s *Session) SetElderOnlyChild(only bool) error {
	return s.edit(func(in *domain.DeductionInput) { in.ElderSupport.IsOnlyChild = only })
}

func (s *Session) SetElderShare(m domain.ShareMethod) error {
	if !m.Valid() {
		return fmt.Errorf("unknown share method %q", m)
	}
	return s.edit(func(in *domain.DeductionInput) { in.ElderSupport.Share = m })
}

// SetElderSiblingCount sets how many children (the declarant included)
// support the parents. A non-only child always has at least two.
func (s *Session) SetElderSiblingCount(n int) error {
	return s.edit(func(in *domain.DeductionInput) { in.ElderSupport.SiblingCount = atLeast(n, 2) })
}

// SetElderShareAmount sets the agreed monthly share; negatives become zero.
func (s *Session) SetElderShareAmount(amount decimal.Decimal) error {
	return s.edit(func(in *domain.DeductionInput) { in.ElderSupport.ShareAmount = nonNegative(amount) })
}

// SetIllnessSelfPay sets the annual self-paid medical amount; negatives
// become zero.
func (s *Session) SetIllnessSelfPay(amount decimal.Decimal) error {
	return s.edit(func(in *domain.DeductionInput) { in.SeriousIllness.AnnualSelfPay = nonNegative(amount) })
}

func atLeast(n, floor int) int {
	if n < floor {
		return floor
	}
	return n
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
