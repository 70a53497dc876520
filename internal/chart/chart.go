// Package chart draws view.ChartSeries in the terminal.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sirdesai22/registration-dashboard/internal/view"
)

const (
	barRune   = "█"
	legendDot = "■"
	minWidth  = 20
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"})
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#696969"})
	frame      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Bar renders one horizontal bar per label, scaled so the largest value
// fills the available width.
func Bar(s view.ChartSeries, width int) string {
	width = max(width, minWidth)
	if len(s.Values) == 0 {
		return render(s.Title, mutedStyle.Render("No data"))
	}

	labelW, countW, top := 0, 0, 0
	for i, l := range s.Labels {
		labelW = max(labelW, lipgloss.Width(l))
		countW = max(countW, len(strconv.Itoa(s.Values[i])))
		top = max(top, s.Values[i])
	}
	barW := max(width-labelW-countW-2, 1)

	rows := make([]string, len(s.Values))
	for i, v := range s.Values {
		bar := lipgloss.NewStyle().Foreground(color(s, i)).Render(strings.Repeat(barRune, scale(v, top, barW)))
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Width(labelW+1).Render(s.Labels[i]),
			bar,
			" ",
			mutedStyle.Render(strconv.Itoa(v)),
		)
	}
	return render(s.Title, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Pie renders each label's share as a segment of one strip followed by a
// legend with percentages.
func Pie(s view.ChartSeries, width int) string {
	width = max(width, minWidth)
	total := 0
	for _, v := range s.Values {
		total += v
	}
	if total == 0 {
		return render(s.Title, mutedStyle.Render("No data"))
	}

	cells := shares(s.Values, width)
	var strip strings.Builder
	legend := make([]string, len(s.Values))
	for i, v := range s.Values {
		style := lipgloss.NewStyle().Foreground(color(s, i))
		strip.WriteString(style.Render(strings.Repeat(barRune, cells[i])))
		pct := float64(v) * 100 / float64(total)
		legend[i] = fmt.Sprintf("%s %s %s",
			style.Render(legendDot),
			labelStyle.Render(s.Labels[i]),
			mutedStyle.Render(fmt.Sprintf("%d (%.1f%%)", v, pct)),
		)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, strip.String(), "", lipgloss.JoinVertical(lipgloss.Left, legend...))
	return render(s.Title, body)
}

func render(title, body string) string {
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body))
}

func color(s view.ChartSeries, i int) lipgloss.Color {
	if i < len(s.Colors) && s.Colors[i] != "" {
		return lipgloss.Color(s.Colors[i])
	}
	return lipgloss.Color(view.Palette[i%len(view.Palette)])
}

// scale maps v in [0, top] onto [0, width]. Any non-zero value gets at least
// one cell so small buckets stay visible.
func scale(v, top, width int) int {
	if top <= 0 || v <= 0 {
		return 0
	}
	n := v * width / top
	return max(n, 1)
}

// shares splits width cells across values by the largest-remainder method,
// so the segments always sum to width.
func shares(values []int, width int) []int {
	total := 0
	for _, v := range values {
		total += v
	}
	out := make([]int, len(values))
	if total == 0 {
		return out
	}

	used := 0
	rems := make([]int, len(values))
	for i, v := range values {
		out[i] = v * width / total
		rems[i] = v * width % total
		used += out[i]
	}
	for ; used < width; used++ {
		best := 0
		for i := range rems {
			if rems[i] > rems[best] {
				best = i
			}
		}
		out[best]++
		rems[best] = -1
	}
	return out
}
