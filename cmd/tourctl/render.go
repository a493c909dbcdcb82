package main

import (
	"fmt"
	"strings"

	"tourdesk/models"
	"tourdesk/mq"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#8FA082")
	colorMuted  = lipgloss.Color("#7E8C80")
	colorYellow = lipgloss.Color("#f9e2af")

	headerStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	featuredStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1D221E")).
			Background(colorAccent)
)

type column struct {
	label string
	width int
}

var tourColumns = []column{
	{"id", 24},
	{"title", 28},
	{"city", 14},
	{"price", 10},
	{"group", 5},
	{"dates", 14},
	{"", 1},
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(truncate(s, width))
}

func tourCells(t models.Tour) []string {
	star := ""
	if t.Featured {
		star = "★"
	}
	return []string{
		t.ID.Hex(),
		t.Title,
		t.City,
		fmt.Sprintf("%.0f", t.Price),
		fmt.Sprint(t.MaxGroupSize),
		t.Distance,
		star,
	}
}

func renderRow(values []string) string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = cell(v, tourColumns[i].width)
	}
	return strings.Join(cells, " ")
}

func renderHeader() string {
	labels := make([]string, len(tourColumns))
	for i, c := range tourColumns {
		labels[i] = c.label
	}
	return headerStyle.Render(renderRow(labels))
}

// renderTours prints tours as a fixed-width table.
func renderTours(tours []models.Tour) string {
	if len(tours) == 0 {
		return mutedStyle.Render("no tours")
	}
	lines := []string{renderHeader()}
	for _, t := range tours {
		row := renderRow(tourCells(t))
		if t.Featured {
			row = featuredStyle.Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func renderEvent(ev mq.Index) string {
	line := fmt.Sprintf("%s %-16s %s %s", ev.At.Format("15:04:05"), ev.Event, ev.EntityType, ev.EntityId)
	if ev.ItemId != "" {
		line += mutedStyle.Render(fmt.Sprintf(" (%s %s)", ev.ItemType, ev.ItemId))
	}
	return line
}
