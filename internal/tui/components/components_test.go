package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		wantFilled     int
	}{
		{"empty", 0, 4, 0},
		{"first step", 1, 4, 5},
		{"half", 2, 4, 10},
		{"complete", 4, 4, 20},
		{"overflow clamps", 9, 4, 20},
		{"zero total", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFilled, NewProgressBar(tt.current, tt.total).Filled())
		})
	}
}

func TestProgressBar_Render(t *testing.T) {
	out := NewProgressBar(2, 4).WithWidth(8).WithLabel("review").Render()
	assert.Equal(t, 4, strings.Count(out, "█"))
	assert.Equal(t, 4, strings.Count(out, "░"))
	assert.Contains(t, out, "2/4 · review")
}

func TestMetricCard(t *testing.T) {
	card := NewMetricCard("Monthly deduction", "¥3,500").WithDescription("from next payroll")
	out := card.Render()
	assert.Contains(t, out, "Monthly deduction")
	assert.Contains(t, out, "¥3,500")
	assert.Contains(t, out, "from next payroll")

	assert.Contains(t, card.RenderCompact(), "Monthly deduction: ")
	assert.Equal(t, 40, card.WithWidth(40).Width)
}

func TestMetricGrid(t *testing.T) {
	assert.Empty(t, MetricGrid(nil, 2))

	cards := []*MetricCard{
		NewMetricCard("Monthly", "¥1,000"),
		NewMetricCard("Annual", "¥12,000"),
		NewMetricCard("Illness", "¥5,000"),
	}
	out := MetricGrid(cards, 2)
	for _, want := range []string{"¥1,000", "¥12,000", "¥5,000"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, MetricGrid(cards, 0), "¥5,000", "Non-positive columns fall back to one")
}
