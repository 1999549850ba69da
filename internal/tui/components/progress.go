package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/deductgo/internal/tui/tuistyles"
)

// ProgressBar shows how far through the wizard the user is
type ProgressBar struct {
	Current   int
	Total     int
	Width     int
	Label     string
	ShowCount bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(current, total int) *ProgressBar {
	return &ProgressBar{
		Current:   current,
		Total:     total,
		Width:     20,
		ShowCount: true,
	}
}

// WithLabel sets the progress label shown after the bar
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// Filled returns the number of filled cells, clamped to the bar width
func (p *ProgressBar) Filled() int {
	if p.Total <= 0 || p.Current <= 0 {
		return 0
	}
	filled := p.Width * p.Current / p.Total
	if filled > p.Width {
		filled = p.Width
	}
	return filled
}

// Render returns the styled progress bar on one line
func (p *ProgressBar) Render() string {
	filled := p.Filled()
	empty := p.Width - filled

	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	var content strings.Builder
	if filled > 0 {
		content.WriteString(barStyle.Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		content.WriteString(emptyStyle.Render(strings.Repeat("░", empty)))
	}

	var stats []string
	if p.ShowCount {
		stats = append(stats, fmt.Sprintf("%d/%d", p.Current, p.Total))
	}
	if p.Label != "" {
		stats = append(stats, p.Label)
	}
	if len(stats) > 0 {
		content.WriteString(" ")
		content.WriteString(tuistyles.SubtitleStyle.Render(strings.Join(stats, " · ")))
	}
	return content.String()
}
