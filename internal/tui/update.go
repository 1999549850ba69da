package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/rgehrsitz/deductgo/internal/wizard"
)

var (
	keyUp      = key.NewBinding(key.WithKeys("up", "k"))
	keyDown    = key.NewBinding(key.WithKeys("down", "j"))
	keyLeft    = key.NewBinding(key.WithKeys("left", "h"))
	keyRight   = key.NewBinding(key.WithKeys("right", "l"))
	keySelect  = key.NewBinding(key.WithKeys(" ", "enter"))
	keyEnter   = key.NewBinding(key.WithKeys("enter"))
	keyNext    = key.NewBinding(key.WithKeys("n", "tab"))
	keyBack    = key.NewBinding(key.WithKeys("esc", "b"))
	keyYes     = key.NewBinding(key.WithKeys("y", "Y", "enter"))
	keyNo      = key.NewBinding(key.WithKeys("n", "N", "esc"))
	keyGuide   = key.NewBinding(key.WithKeys("g", "?"))
	keyQuit    = key.NewBinding(key.WithKeys("q"))
	keyForceQ  = key.NewBinding(key.WithKeys("ctrl+c"))
	keyRestart = key.NewBinding(key.WithKeys("enter", "r"))
)

var (
	amountStepShare   = decimal.NewFromInt(100)
	amountStepIllness = decimal.NewFromInt(1000)
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.amountInput, cmd = m.amountInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress routes keys to the prompt, the text input or the current
// step, in that order.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keyForceQ) {
		return m, tea.Quit
	}
	if m.editing {
		return m.updateAmountInput(msg)
	}
	if m.confirming {
		return m.updateConfirm(msg)
	}

	switch {
	case key.Matches(msg, keyQuit):
		return m, tea.Quit
	case key.Matches(msg, keyGuide):
		m.showGuide = !m.showGuide
		return m, nil
	}
	if m.showGuide {
		if key.Matches(msg, keyBack) {
			m.showGuide = false
		}
		return m, nil
	}

	m.err = nil
	m.status = ""
	switch m.session.Step() {
	case wizard.StepIntro:
		return m.updateIntro(msg)
	case wizard.StepDeclare:
		return m.updateDeclare(msg)
	case wizard.StepReview:
		return m.updateReview(msg)
	case wizard.StepDone:
		return m.updateDone(msg)
	}
	return m, nil
}

func (m Model) updateIntro(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keySelect) {
		m.err = m.session.Start()
		m.cursor = 0
	}
	return m, nil
}

func (m Model) updateDeclare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := rows(m.session.Input())

	switch {
	case key.Matches(msg, keyUp):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keyDown):
		if m.cursor < len(current)-1 {
			m.cursor++
		}
	case key.Matches(msg, keyNext):
		m.err = m.session.Next()
	case key.Matches(msg, keySelect):
		return m.activate(current[m.cursor])
	case key.Matches(msg, keyLeft):
		m.err = m.adjust(current[m.cursor], -1)
	case key.Matches(msg, keyRight):
		m.err = m.adjust(current[m.cursor], 1)
	}

	m.clampCursor()
	return m, nil
}

// activate handles space or enter on the focused row.
func (m Model) activate(r row) (tea.Model, tea.Cmd) {
	switch r.kind {
	case rowToggle:
		if m.session.HousingConflict(r.category) {
			m.confirming = true
			m.pending = r.category
			return m, nil
		}
		m.err = m.session.Toggle(r.category, nil)
	case rowAmount:
		m.editing = true
		m.amountInput.SetValue(m.amountValue(r.field).String())
		m.amountInput.CursorEnd()
		m.amountInput.Focus()
		return m, textinput.Blink
	default:
		m.err = m.adjust(r, 1)
	}
	m.clampCursor()
	return m, nil
}

// adjust steps the focused value by delta: counters and amounts move up or
// down, options cycle and checks flip.
func (m Model) adjust(r row, delta int) error {
	s := m.session
	in := s.Input()

	switch r.field {
	case fieldChildrenCount:
		return s.SetChildrenCount(in.Children.Count + delta)
	case fieldChildrenSplit:
		return s.SetChildrenSplit(flipSplit(in.Children.Split))
	case fieldInfantCount:
		return s.SetInfantCount(in.Infant.Count + delta)
	case fieldInfantSplit:
		return s.SetInfantSplit(flipSplit(in.Infant.Split))
	case fieldAcademic:
		return s.SetAcademicEducation(!in.ContinuingEducation.Academic)
	case fieldProfessional:
		return s.SetProfessionalEducation(!in.ContinuingEducation.Professional)
	case fieldLoanSplit:
		return s.SetLoanSplit(flipSplit(in.HousingLoan.Split))
	case fieldRentTier:
		return s.SetRentTier(cycleTier(in.HousingRent.CityTier, delta))
	case fieldElderOnlyChild:
		return s.SetElderOnlyChild(!in.ElderSupport.IsOnlyChild)
	case fieldElderShare:
		if in.ElderSupport.Share == domain.ShareSpecific {
			return s.SetElderShare(domain.ShareAverage)
		}
		return s.SetElderShare(domain.ShareSpecific)
	case fieldElderSiblings:
		return s.SetElderSiblingCount(in.ElderSupport.SiblingCount + delta)
	case fieldElderAmount:
		return s.SetElderShareAmount(in.ElderSupport.ShareAmount.Add(amountStepShare.Mul(decimal.NewFromInt(int64(delta)))))
	case fieldIllnessPay:
		return s.SetIllnessSelfPay(in.SeriousIllness.AnnualSelfPay.Add(amountStepIllness.Mul(decimal.NewFromInt(int64(delta)))))
	}
	return nil
}

func (m Model) amountValue(f field) decimal.Decimal {
	in := m.session.Input()
	if f == fieldElderAmount {
		return in.ElderSupport.ShareAmount
	}
	return in.SeriousIllness.AnnualSelfPay
}

func (m Model) updateAmountInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		raw := strings.TrimSpace(strings.ReplaceAll(m.amountInput.Value(), ",", ""))
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			m.err = fmt.Errorf("%q is not an amount", m.amountInput.Value())
			return m, nil
		}
		current := rows(m.session.Input())
		if current[m.cursor].field == fieldElderAmount {
			m.err = m.session.SetElderShareAmount(amount)
		} else {
			m.err = m.session.SetIllnessSelfPay(amount)
		}
		m.editing = false
		m.amountInput.Blur()
		return m, nil

	case tea.KeyEsc:
		m.editing = false
		m.err = nil
		m.amountInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	return m, cmd
}

// updateConfirm answers the housing loan / rent switch prompt.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyYes):
		m.err = m.session.Toggle(m.pending, wizard.AlwaysConfirm)
		m.confirming = false
	case key.Matches(msg, keyNo):
		m.status = "Kept " + otherHousing(m.pending).DisplayName()
		m.confirming = false
	}
	m.clampCursor()
	return m, nil
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyBack), key.Matches(msg, keyLeft):
		m.err = m.session.Back()
	case key.Matches(msg, keyEnter), key.Matches(msg, key.NewBinding(key.WithKeys("y"))):
		result, err := m.session.Submit(m.ctx)
		if err != nil {
			m.err = fmt.Errorf("submission not saved, try again: %w", err)
			return m, nil
		}
		m.submitted = &result
	}
	return m, nil
}

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keyRestart) {
		m.session.Reset()
		m.submitted = nil
		m.cursor = 0
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(rows(m.session.Input()))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func flipSplit(s domain.SplitMethod) domain.SplitMethod {
	if s == domain.SplitHalf {
		return domain.SplitFull
	}
	return domain.SplitHalf
}

var tiers = []domain.CityTier{domain.CityTier1, domain.CityTier2, domain.CityTier3}

func cycleTier(t domain.CityTier, delta int) domain.CityTier {
	i := 0
	for j, tier := range tiers {
		if tier == t {
			i = j
		}
	}
	i = ((i+delta)%len(tiers) + len(tiers)) % len(tiers)
	return tiers[i]
}

func otherHousing(c domain.Category) domain.Category {
	if c == domain.CategoryHousingLoan {
		return domain.CategoryHousingRent
	}
	return domain.CategoryHousingLoan
}
