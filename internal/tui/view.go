package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/deductgo/internal/output"
	"github.com/rgehrsitz/deductgo/internal/tui/components"
	"github.com/rgehrsitz/deductgo/internal/tui/tuistyles"
	"github.com/rgehrsitz/deductgo/internal/wizard"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.showGuide:
		content = m.renderGuide()
	default:
		switch m.session.Step() {
		case wizard.StepIntro:
			content = m.renderIntro()
		case wizard.StepDeclare:
			content = m.renderDeclare()
		case wizard.StepReview:
			content = m.renderReview()
		case wizard.StepDone:
			content = m.renderDone()
		default:
			content = "Unknown step"
		}
	}

	if m.err != nil {
		content += "\n" + tuistyles.ErrorStyle.Render("Error: "+m.err.Error())
	}
	if m.status != "" {
		content += "\n" + tuistyles.InfoStyle.Render(m.status)
	}
	return m.renderApp(content)
}

// wizardSteps is the number of screens from intro to done
const wizardSteps = 4

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("Special Additional Deduction Calculator")
	step := m.session.Step()
	crumb := components.NewProgressBar(int(step)+1, wizardSteps).WithLabel(step.String()).Render()
	if m.showGuide {
		crumb = tuistyles.SubtitleStyle.Render("Filing guide")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, crumb, "")
}

// renderStatusBar lists the keys that do something on the current screen.
func (m Model) renderStatusBar() string {
	var shortcuts []string
	switch {
	case m.editing:
		shortcuts = []string{formatShortcut("enter", "save"), formatShortcut("esc", "cancel")}
	case m.confirming:
		shortcuts = []string{formatShortcut("y", "switch"), formatShortcut("n", "keep current")}
	case m.showGuide:
		shortcuts = []string{formatShortcut("esc/g", "close guide"), formatShortcut("q", "quit")}
	default:
		switch m.session.Step() {
		case wizard.StepIntro:
			shortcuts = []string{formatShortcut("enter", "start")}
		case wizard.StepDeclare:
			shortcuts = []string{
				formatShortcut("↑/↓", "move"),
				formatShortcut("space", "toggle/edit"),
				formatShortcut("←/→", "adjust"),
				formatShortcut("n", "review"),
			}
		case wizard.StepReview:
			shortcuts = []string{formatShortcut("enter", "confirm & submit"), formatShortcut("esc", "back")}
		case wizard.StepDone:
			shortcuts = []string{formatShortcut("enter", "back to start")}
		}
		shortcuts = append(shortcuts, formatShortcut("g", "guide"), formatShortcut("q", "quit"))
	}
	return "\n" + tuistyles.StatusBarStyle.Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(key, desc string) string {
	return tuistyles.StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderIntro() string {
	var sb strings.Builder
	if m.session.Submitted() {
		sb.WriteString(tuistyles.MetricValueStyle.Render("✓ Your declaration has been submitted.") + "\n\n")
		sb.WriteString("Deductions apply from the next payroll month. Check your payslip\n")
		sb.WriteString("from the 1st to the 15th of each month.\n\n")
		sb.WriteString("Press enter to modify your declaration.\n")
		return sb.String()
	}

	sb.WriteString("Estimate the special additional deductions you can claim against\n")
	sb.WriteString("wage income tax, then review and submit your declaration.\n\n")
	sb.WriteString(tuistyles.MetricLabelStyle.Render("Categories") + "\n")
	for _, c := range declareOrder {
		sb.WriteString("  • " + c.DisplayName() + "\n")
	}
	sb.WriteString("\nPress enter to start.\n")
	return sb.String()
}

func (m Model) renderDeclare() string {
	var sb strings.Builder
	for i, r := range rows(m.session.Input()) {
		cursor := "  "
		style := tuistyles.UnselectedItemStyle
		if i == m.cursor {
			cursor = "› "
			style = tuistyles.SelectedItemStyle
		}

		var line string
		switch r.kind {
		case rowToggle:
			box := "[ ]"
			if m.session.Input().Enabled(r.category) {
				box = "[x]"
			}
			line = fmt.Sprintf("%s %s", box, r.label)
		case rowCounter, rowOption:
			line = fmt.Sprintf("    %-36s ‹ %s ›", r.label, r.value)
		case rowAmount:
			value := r.value
			if m.editing && i == m.cursor {
				value = m.amountInput.View()
			}
			line = fmt.Sprintf("    %-36s %s", r.label, value)
		default:
			line = fmt.Sprintf("    %-36s %s", r.label, r.value)
		}
		sb.WriteString(cursor + style.Render(line) + "\n")
	}

	result := m.session.Result()
	sb.WriteString("\n")
	sb.WriteString(components.NewMetricCard("Monthly deduction", output.FormatCurrency(result.MonthlyTotal)).RenderCompact())
	if result.IllnessEnabled {
		sb.WriteString("   " + components.NewMetricCard("Illness (annual)", output.FormatCurrency(result.AnnualIllnessDeduction)).RenderCompact())
	}
	sb.WriteString("\n")

	if m.confirming {
		sb.WriteString("\n" + tuistyles.PromptStyle.Render(wizard.HousingConflictPrompt+" (y/n)") + "\n")
	}
	return sb.String()
}

func (m Model) renderReview() string {
	report := output.NewReport(m.session.Input(), m.session.Result(), m.session.Rules())
	body, err := output.ConsoleFormatter{}.Format(report)
	if err != nil {
		return tuistyles.ErrorStyle.Render(err.Error())
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(string(body), "\n")) + "\n" +
		tuistyles.InfoStyle.Render("Amounts are estimates. Your employer withholds tax on the declared figures.")
}

func (m Model) renderDone() string {
	var sb strings.Builder
	sb.WriteString(tuistyles.MetricValueStyle.Render("✓ Declaration submitted") + "\n\n")
	if m.submitted != nil {
		cards := []*components.MetricCard{
			components.NewMetricCard("Monthly deduction", output.FormatCurrency(m.submitted.MonthlyTotal)).
				WithDescription("from next payroll"),
			components.NewMetricCard("Annual deduction", output.FormatCurrency(m.submitted.AnnualTotal)).
				WithDescription("for the tax year"),
		}
		sb.WriteString(components.MetricGrid(cards, 2) + "\n\n")
	}
	sb.WriteString("Your employer applies the deduction from the next payroll month.\n")
	sb.WriteString("Anything missed can be claimed at annual reconciliation (1 March to 30 June).\n")
	return sb.String()
}

func (m Model) renderGuide() string {
	width := m.width - 4
	return tuistyles.BorderStyle.Render(strings.TrimRight(output.GuideText(width-2), "\n"))
}
